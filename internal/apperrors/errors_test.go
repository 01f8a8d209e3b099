package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("posting sale: %w", &InsufficientStockError{ProductID: "p-1", Available: 2, Requested: 5})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	var stockErr *InsufficientStockError
	assert.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(2), stockErr.Available)
	assert.Contains(t, err.Error(), "p-1")
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(ErrValidation))
	assert.True(t, IsRetryable(fmt.Errorf("%w: serialization failure", ErrTransient)))
	assert.True(t, IsRetryable(&TransactionTimeoutError{Err: context.DeadlineExceeded}))
	assert.False(t, IsRetryable(fmt.Errorf("%w: %w", ErrTransient, context.Canceled)))
}

func TestTransactionTimeoutErrorKeepsCause(t *testing.T) {
	err := &TransactionTimeoutError{Err: context.DeadlineExceeded}
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, errors.Is(err, ErrTransient))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("amount must not be zero"), http.StatusBadRequest},
		{"not found", NewNotFoundError("movement"), http.StatusNotFound},
		{"no open session", ErrNoOpenSession, http.StatusConflict},
		{"session closed", fmt.Errorf("wrap: %w", ErrSessionClosed), http.StatusConflict},
		{"already open", ErrSessionAlreadyOpen, http.StatusConflict},
		{"account closed", ErrAccountClosed, http.StatusConflict},
		{"stock", &InsufficientStockError{ProductID: "p"}, http.StatusUnprocessableEntity},
		{"timeout", &TransactionTimeoutError{Err: context.DeadlineExceeded}, http.StatusServiceUnavailable},
		{"app error", NewAppError(http.StatusBadGateway, "upstream", nil), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
