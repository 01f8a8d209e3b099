package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// ReportingSvcFacade defines the interface for reconciliation reports
type ReportingSvcFacade interface {
	// SessionReport builds the reconciliation view of a cash register session
	SessionReport(ctx context.Context, sessionID string) (*domain.SessionReport, error)
}
