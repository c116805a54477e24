package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task is the unit of work tracked on a board. Its column and position are
// owned by the board, not the task.
type Task struct {
	ID        string
	Title     string
	Type      TaskType
	Priority  Priority
	Assignee  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks title, type and priority.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if !ValidTaskTypes[t.Type] {
		return fmt.Errorf("invalid task type %q (want Bug, Feature or Improvement)", t.Type)
	}
	if !ValidPriorities[t.Priority] {
		return fmt.Errorf("invalid priority %q (want Low, Medium or High)", t.Priority)
	}
	return nil
}

// ParseTaskType resolves a case-insensitive task type name.
func ParseTaskType(s string) (TaskType, error) {
	for t := range ValidTaskTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid task type %q (want Bug, Feature or Improvement)", s)
}

// ParsePriority resolves a case-insensitive priority name.
func ParsePriority(s string) (Priority, error) {
	for p := range ValidPriorities {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (want Low, Medium or High)", s)
}
