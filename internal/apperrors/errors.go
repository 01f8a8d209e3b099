package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDuplicateMovement is raised by the store when a movement with the same
// idempotency key already exists. The ledger resolves it by returning the
// existing movement; callers never see it.
var ErrDuplicateMovement = errors.New("duplicate movement")

// Cash register session errors.
var (
	ErrNoOpenSession      = errors.New("no open cash register session")
	ErrSessionClosed      = errors.New("cash register session is closed")
	ErrSessionAlreadyOpen = errors.New("a cash register session is already open")
)

// ErrInsufficientStock is the sentinel every InsufficientStockError unwraps to.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrAccountClosed rejects new original movements on a closed customer account.
var ErrAccountClosed = errors.New("customer account is closed")

// ErrTransient marks failures that are safe to retry (timeouts, serialization
// failures, deadlocks).
var ErrTransient = errors.New("transient ledger failure")

// AppError carries an HTTP status code alongside a wrapped cause.
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

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the missing resource description.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

// NewValidationError wraps ErrValidation with a reason.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InsufficientStockError reports a stock movement that would drive a product
// without backorder below zero.
type InsufficientStockError struct {
	ProductID string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d", e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// TransactionTimeoutError reports a ledger transaction that exceeded its time budget.
type TransactionTimeoutError struct {
	Err error
}

func (e *TransactionTimeoutError) Error() string {
	return fmt.Sprintf("ledger transaction timed out: %v", e.Err)
}

func (e *TransactionTimeoutError) Unwrap() []error {
	return []error{ErrTransient, e.Err}
}

// IsRetryable reports whether the whole ledger transaction may be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrTransient)
}

// HTTPStatus maps an error to the status code the REST layer responds with.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoOpenSession),
		errors.Is(err, ErrSessionClosed),
		errors.Is(err, ErrSessionAlreadyOpen),
		errors.Is(err, ErrAccountClosed),
		errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	case errors.As(err, &appErr):
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
