package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock     func() time.Time
	Publisher portssvc.EventPublisher
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the service clock in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// PublishEvents hands committed events to the publisher. Delivery failures
// are logged and never fail the operation that produced the events.
func (s *BaseService) PublishEvents(ctx context.Context, events ...domain.Event) {
	if s.Publisher == nil || len(events) == 0 {
		return
	}
	if err := s.Publisher.Publish(ctx, events...); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger events", slog.Int("event_count", len(events)))
	}
}
