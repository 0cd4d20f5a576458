package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")

	// ErrPersistence matches every PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence failed")

	// Gateway load outcomes. Both are absorbed by bootstrap seeding.
	ErrNoState        = errors.New("no stored app state")
	ErrMalformedState = errors.New("malformed app state")

	ErrPlaceNotFound = errors.New("place not found")
	ErrUnresolvable  = errors.New("route unresolvable")
)

// ValidationError reports malformed input to a mutating operation.
// It is always returned before any state mutation or persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failed gateway Save. The store has already
// rolled back to the pre-mutation state when a caller sees one.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persist app state: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
