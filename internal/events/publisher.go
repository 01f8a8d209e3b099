// Package events delivers committed ledger events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/go-redis/redis/v8"
)

// Envelope is the wire form of every event.
type Envelope struct {
	Type       domain.EventType `json:"type"`
	OccurredAt time.Time        `json:"occurredAt"`
	Payload    domain.Event     `json:"payload"`
}

func encode(e domain.Event, at time.Time) ([]byte, error) {
	data, err := json.Marshal(Envelope{Type: e.EventType(), OccurredAt: at, Payload: e})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", e.EventType(), err)
	}
	return data, nil
}

// RedisPublisher publishes each event on "<prefix>.<event type>".
type RedisPublisher struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

var _ portssvc.EventPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client redis.Cmdable, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix, now: time.Now}
}

// Channel returns the channel an event type is published on.
func (p *RedisPublisher) Channel(t domain.EventType) string {
	return p.prefix + "." + string(t)
}

// Publish sends every event even if an earlier one fails and joins the errors.
func (p *RedisPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, e := range events {
		data, err := encode(e, p.now().UTC())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := p.client.Publish(ctx, p.Channel(e.EventType()), string(data)).Err(); err != nil {
			errs = append(errs, fmt.Errorf("failed to publish %s: %w", e.EventType(), err))
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes events to the request logger. It is the fallback when
// no broker is configured.
type LogPublisher struct{}

var _ portssvc.EventPublisher = LogPublisher{}

func (LogPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	for _, e := range events {
		level := slog.LevelInfo
		if e.EventType() == domain.EventCreditLimitExceeded || e.EventType() == domain.EventCashSessionStale {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "Ledger event", slog.String("event_type", string(e.EventType())), slog.Any("payload", e))
	}
	return nil
}

// MultiPublisher fans events out to several publishers.
type MultiPublisher []portssvc.EventPublisher

var _ portssvc.EventPublisher = MultiPublisher(nil)

func (m MultiPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
