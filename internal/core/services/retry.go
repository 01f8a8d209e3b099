package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
)

// retryPolicy bounds how often a whole ledger transaction is re-run after a
// transient failure. Re-running is safe because every movement is idempotent.
type retryPolicy struct {
	maxRetries int
	delay      time.Duration
}

var defaultRetryPolicy = retryPolicy{maxRetries: 3, delay: 50 * time.Millisecond}

func (s *BaseService) withRetry(ctx context.Context, policy retryPolicy, op string, fn func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil || !apperrors.IsRetryable(err) || attempt >= policy.maxRetries {
			return err
		}

		s.LogWarn(ctx, "Retrying ledger transaction after transient failure",
			slog.String("operation", op),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		wait := policy.delay * time.Duration(attempt+1)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
	}
}
