package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrStaleBooking = errors.New("booking was modified concurrently")
	ErrLockHeld     = errors.New("booking is locked by another request")
)

// ValidationError is returned for malformed or out-of-range input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ConflictError is returned when the request is well formed but clashes with current state.
type ConflictError struct {
	Reason string
	Err    error
}

func (e *ConflictError) Error() string { return e.Reason }

func (e *ConflictError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

func NewConflictError(reason string) error {
	return &ConflictError{Reason: reason}
}

// WrapConflict keeps err reachable through errors.Is.
func WrapConflict(reason string, err error) error {
	return &ConflictError{Reason: reason, Err: err}
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
