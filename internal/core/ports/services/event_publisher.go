package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// EventPublisher delivers committed ledger events to downstream consumers
// (audit log, approval workflow, alerting).
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}
