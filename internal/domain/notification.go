package domain

import "time"

type Notification struct {
	ID        string
	Message   string
	CreatedAt time.Time
	Read      bool
}
