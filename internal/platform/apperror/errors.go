// Package apperror holds the typed failures shared by the services, stores
// and the HTTP boundary.
package apperror

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource kind and id.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a lost optimistic-concurrency race.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError.
func NewConflictError(message string) error {
	return &ConflictError{Message: message}
}

// ValidationError reports a malformed request. Only the boundary layer raises it.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsNotFoundOf reports whether err wraps a NotFoundError for the given resource.
func IsNotFoundOf(err error, resource string) bool {
	var target *NotFoundError
	return errors.As(err, &target) && target.Resource == resource
}

// IsConflict reports whether err wraps a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
