package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/middleware"
)

// StaleSessionJob flags a cash register session left open past a business
// day. Each session is reported once.
type StaleSessionJob struct {
	cash      portssvc.CashRegisterSvcFacade
	publisher portssvc.EventPublisher
	log       *slog.Logger
	now       func() time.Time
	timeout   time.Duration

	mu       sync.Mutex
	reported string
}

var _ Job = (*StaleSessionJob)(nil)

func NewStaleSessionJob(cash portssvc.CashRegisterSvcFacade, publisher portssvc.EventPublisher, log *slog.Logger) *StaleSessionJob {
	return &StaleSessionJob{
		cash:      cash,
		publisher: publisher,
		log:       log.With(slog.String("job", "stale_cash_session")),
		now:       time.Now,
		timeout:   10 * time.Second,
	}
}

func (j *StaleSessionJob) Name() string { return "stale_cash_session" }

func (j *StaleSessionJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	ctx = middleware.WithLogger(ctx, j.log)

	session, err := j.cash.CurrentSession(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoOpenSession) {
			return nil
		}
		return fmt.Errorf("failed to read open session: %w", err)
	}

	now := j.now().UTC()
	if !j.cash.IsStale(*session, now) {
		return nil
	}

	j.mu.Lock()
	already := j.reported == session.ID
	j.reported = session.ID
	j.mu.Unlock()
	if already {
		return nil
	}

	openFor := now.Sub(session.OpenedAt)
	j.log.Warn("Cash register session left open",
		slog.String("session_id", session.ID),
		slog.Time("opened_at", session.OpenedAt),
		slog.Duration("open_for", openFor))

	event := domain.CashSessionStale{SessionID: session.ID, OpenedAt: session.OpenedAt, OpenFor: openFor}
	if err := j.publisher.Publish(ctx, event); err != nil {
		j.mu.Lock()
		j.reported = ""
		j.mu.Unlock()
		return fmt.Errorf("failed to publish stale session event: %w", err)
	}
	return nil
}
