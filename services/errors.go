package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation error")
	ErrAccessDenied       = errors.New("access denied")
	ErrCascadeDelete      = errors.New("cascade delete incomplete")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrResourceExists     = errors.New("resource already exists")

	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrSpaceNotFound = fmt.Errorf("space %w", ErrNotFound)
	ErrNoteNotFound  = fmt.Errorf("note %w", ErrNotFound)
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// CascadeDeleteError reports a space deletion that stopped while removing its
// notes. The deletion is rolled back: the space and every note in Remaining
// still exist. Failed holds the note that could not be deleted followed by
// the notes that were not attempted.
type CascadeDeleteError struct {
	SpaceID   string
	Remaining []string
	Failed    []string
	Err       error
}

func (e *CascadeDeleteError) Error() string {
	return fmt.Sprintf("delete space %s: rolled back, %d notes remain, failed at (%s): %v",
		e.SpaceID, len(e.Remaining), strings.Join(e.Failed, ","), e.Err)
}

func (e *CascadeDeleteError) Unwrap() []error {
	return []error{ErrCascadeDelete, e.Err}
}
