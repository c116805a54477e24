package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	Status       UserStatus
	LastActivity time.Time
}

// Validate checks name, email and role.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("please enter a valid email address: %q", u.Email)
	}
	if !ValidRoles[u.Role] {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	return nil
}

// ParseRole resolves a case-insensitive role name.
func ParseRole(s string) (Role, error) {
	for r := range ValidRoles {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid role %q (want Admin, Manager or Employee)", s)
}
