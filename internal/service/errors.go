package service

import (
	"errors"
	"fmt"
)

// Errors returned by the domain services. Handlers map them to status codes
// with errors.Is; wrapped causes are for logs only.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrStorageWrite = errors.New("failed to store file content")
	ErrPersistence  = errors.New("failed to save changes")
)

// invalid wraps a validation failure so its message can be shown to the client
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func invalidf(format string, args ...any) error {
	return invalid(fmt.Errorf(format, args...))
}

// persistence marks a storage failure while keeping the driver error for logs
func persistence(action string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", action, ErrPersistence, err)
}
