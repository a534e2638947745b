// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")
)

// Task-specific validation errors
var (
	// ErrTaskTitleEmpty is returned when a task title is empty.
	ErrTaskTitleEmpty = fmt.Errorf("%w: task title cannot be empty", ErrValidation)

	// ErrTaskTitleTooLong is returned when a task title exceeds the maximum length.
	ErrTaskTitleTooLong = fmt.Errorf("%w: task title cannot exceed %d characters", ErrValidation, MaxTitleLength)

	// ErrInvalidTaskStatus is returned when a task status is not one of the enumerated values.
	ErrInvalidTaskStatus = fmt.Errorf("%w: invalid task status", ErrValidation)

	// ErrInvalidTaskPriority is returned when a task priority is not one of the enumerated values.
	ErrInvalidTaskPriority = fmt.Errorf("%w: invalid task priority", ErrValidation)
)

// ValidationError carries field-level context for a validation failure.
// It wraps ErrValidation so callers can detect the category with errors.Is.
type ValidationError struct {
	Field   string // The field that failed validation (e.g., "limit")
	Message string // Human-readable description of the failure
	Err     error  // Wrapped error, usually ErrValidation
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrValidation
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
