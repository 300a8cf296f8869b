package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller may not act on the requested company.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when an unexpected failure should not leak details to callers.
var ErrInternal = errors.New("internal error")

// Ledger errors. ErrAccountNotFound and ErrRateMissing abort the operation that
// raised them; ErrPartialWrite is scoped to a single entry and lets a batch continue.
var (
	ErrAccountNotFound = errors.New("required account not found")
	ErrUnbalancedEntry = errors.New("journal entry is not balanced")
	ErrPartialWrite    = errors.New("journal entry partially written")
	ErrRateMissing     = errors.New("exchange rate missing")
)

// AppError carries an HTTP-ish status code alongside the wrapped cause. Repositories
// use it for infrastructure failures (transaction begin/commit, batch execution).
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. err may be nil.
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
