package repositories

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// ReportingRepositoryFacade aggregates movements for reconciliation reports.
type ReportingRepositoryFacade interface {
	// SessionPaymentBreakdown groups a session's cash-ledger movements by
	// payment method and tender.
	SessionPaymentBreakdown(ctx context.Context, sessionID string) ([]domain.PaymentMethodTotal, error)
}
