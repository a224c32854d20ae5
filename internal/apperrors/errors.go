package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested client, resource or instrument could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a record that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that a client or treasury balance (or a resource float)
// is too low for the requested movement.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidState indicates an operation on an instrument or client whose state forbids it,
// e.g. closing an inactive deposit or deleting a client that still owns active instruments.
var ErrInvalidState = errors.New("invalid state")

// ErrCapacityExceeded indicates a withdrawal asks for more units than the pricing engine
// integrates in one request. Inverse queries that hit the ceiling return a flagged quote instead.
var ErrCapacityExceeded = errors.New("iteration capacity exceeded")

// AppError wraps an infrastructure failure with the HTTP status it should surface as.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")
