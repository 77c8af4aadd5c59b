package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidState indicates that an operation is not allowed in the
// resource's current lifecycle state.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrConflict indicates that the resource is already in the requested state.
var ErrConflict = errors.New("resource state conflict")

// ErrPrecondition indicates that a required precondition for the operation
// was not satisfied.
var ErrPrecondition = errors.New("precondition not met")

// ErrForbidden indicates that the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("operation forbidden")

// AppError carries a status code and an underlying cause for failures that
// originate below the service layer (repositories, adapters).
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
