package board

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrNotFound        = errors.New("project not found")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDuplicateTask   = errors.New("duplicate task")
	ErrTaskNotFound    = errors.New("task not found")
)

// NotFoundError reports an unknown project.
type NotFoundError struct {
	ProjectID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project %q not found", e.ProjectID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidColumnError reports a column name outside the project's layout.
type InvalidColumnError struct {
	ProjectID string
	Column    Column
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("invalid column %q for project %q", e.Column, e.ProjectID)
}

func (e *InvalidColumnError) Is(target error) bool { return target == ErrInvalidColumn }

// IndexOutOfRangeError reports a source or destination index outside the
// column's valid bounds. Len is the length the index was checked against.
type IndexOutOfRangeError struct {
	Column Column
	Index  int
	Len    int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for column %q (length %d)", e.Index, e.Column, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

// DuplicateTaskError reports a task id that is already on the board.
type DuplicateTaskError struct {
	TaskID string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task %q already exists on board", e.TaskID)
}

func (e *DuplicateTaskError) Is(target error) bool { return target == ErrDuplicateTask }

// TaskNotFoundError reports a task id absent from every column.
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %q not found on board", e.TaskID)
}

func (e *TaskNotFoundError) Is(target error) bool { return target == ErrTaskNotFound }
