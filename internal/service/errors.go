package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput wraps validation failures on caller-supplied data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict reports a request that clashes with existing state.
	ErrConflict = errors.New("conflict")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
