package study

import (
	"errors"
	"fmt"
)

// Common errors returned by the study service
var (
	// ErrSessionNotFound is returned for an unknown or expired session, and for
	// a session that belongs to another user.
	ErrSessionNotFound = errors.New("study session not found")

	// ErrTooManySessions is returned when the live session cap is reached.
	ErrTooManySessions = errors.New("too many active study sessions")

	// ErrCardNotOwned is returned when a user acts on another user's card.
	ErrCardNotOwned = errors.New("card is owned by another user")

	// ErrNoCards is returned by AddCards when called with nothing to add.
	ErrNoCards = errors.New("no cards to add")
)

// ServiceError wraps errors from the study service with the operation that
// failed. Callers match the cause with errors.Is and errors.As.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "start_session", "postpone_card")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("study %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("study %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
