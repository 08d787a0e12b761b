package domain

import (
	"errors"
	"fmt"
)

// Protocol violations raised by the pedigree builder. Callers abort the
// current trial when they see either of them.
var (
	ErrInvalidState = errors.New("invalid pedigree state")
	ErrPrecondition = errors.New("pedigree precondition not met")
)

// InvalidStateError is returned when parents are requested for an individual
// that already has them.
type InvalidStateError struct {
	IndividualID int    `json:"individual_id"`
	Message      string `json:"message"`
}

// Error implements the error interface
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state for individual %d: %s", e.IndividualID, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidState.
func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// PreconditionError is returned when an operation needs pedigree structure
// that has not been built yet, such as siblings before parents.
type PreconditionError struct {
	IndividualID int    `json:"individual_id"`
	Message      string `json:"message"`
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for individual %d: %s", e.IndividualID, e.Message)
}

// Unwrap lets errors.Is match ErrPrecondition.
func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewInvalidStateError creates a new InvalidStateError
func NewInvalidStateError(individualID int, message string) *InvalidStateError {
	return &InvalidStateError{IndividualID: individualID, Message: message}
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(individualID int, message string) *PreconditionError {
	return &PreconditionError{IndividualID: individualID, Message: message}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// IsProtocolViolation reports whether err is one of the builder protocol
// errors that should drop the current trial.
func IsProtocolViolation(err error) bool {
	return errors.Is(err, ErrInvalidState) || errors.Is(err, ErrPrecondition)
}
