package domain

import (
	"errors"
	"fmt"
)

// ValidationError indicates that input data failed domain validation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError indicates that a requested resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError indicates that an operation conflicts with the current remote state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a new ConflictError.
func NewConflictError(message string) error {
	return &ConflictError{Message: message}
}

// ForbiddenError indicates that the caller is not allowed to perform the operation.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NewForbiddenError creates a new ForbiddenError.
func NewForbiddenError(message string) error {
	return &ForbiddenError{Message: message}
}

// InvalidStateError indicates a status transition that the lifecycle does not allow.
type InvalidStateError struct {
	From string
	To   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewInvalidStateError creates a new InvalidStateError.
func NewInvalidStateError(from, to string) error {
	return &InvalidStateError{From: from, To: to}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
