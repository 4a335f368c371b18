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

// ErrForbidden indicates the acting user may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when an unexpected infrastructure failure must not leak details.
var ErrInternal = errors.New("internal error")

// ErrCreditLimitExceeded is returned when a new debt would push an account above its credit limit.
var ErrCreditLimitExceeded = errors.New("credit limit exceeded")

// ErrAlreadyProcessed is returned when a check (or a voided sale) is no longer in a state that
// accepts the requested transition.
var ErrAlreadyProcessed = errors.New("already processed")

// ErrNegativeBalance signals that a credit would drive an account balance below zero.
// It always points at upstream data corruption and is never clamped.
var ErrNegativeBalance = errors.New("balance would become negative")

// ErrCorruptedLedger signals that an account's cached balance disagrees with its ledger history
// or sits outside [0, creditLimit].
var ErrCorruptedLedger = errors.New("corrupted ledger")

// AppError carries an HTTP-ish status code and a message alongside the wrapped cause.
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// ValidationError describes a malformed input. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Details string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Details)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, details string) *ValidationError {
	return &ValidationError{Field: field, Details: details}
}

// IsIntegrityError reports whether err is a data-integrity failure that needs operator attention.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrCorruptedLedger) || errors.Is(err, ErrNegativeBalance)
}
