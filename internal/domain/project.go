package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

type Project struct {
	ID        string
	ShortID   string
	Name      string
	Owner     string
	Status    ProjectStatus
	Layout    string
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. EWM01, CORE0042).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. EWM01)", p.ShortID)
	}
	return nil
}

// Validate checks the fields a project form requires.
func (p *Project) Validate() error {
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
