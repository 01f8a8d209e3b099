package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	sessions      portsrepo.CashRegisterReader
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(sessions portsrepo.CashRegisterReader, repo portsrepo.ReportingRepositoryFacade, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		sessions:      sessions,
		reportingRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// SessionReport breaks a session down by payment method. Totals come from
// the movement log, not from the session's running totals.
func (s *reportingService) SessionReport(ctx context.Context, sessionID string) (*domain.SessionReport, error) {
	session, err := s.sessions.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.SessionPaymentBreakdown(ctx, sessionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve session payment breakdown",
			slog.String("session_id", sessionID))
		return nil, fmt.Errorf("failed to retrieve session payment breakdown: %w", err)
	}

	report := &domain.SessionReport{
		Session:         *session,
		CashTotal:       decimal.Zero,
		NonCashTotal:    decimal.Zero,
		ByPaymentMethod: rows,
	}
	for _, row := range rows {
		if row.Tender == domain.TenderCash {
			report.CashTotal = report.CashTotal.Add(row.Total)
		} else {
			report.NonCashTotal = report.NonCashTotal.Add(row.Total)
		}
		report.MovementCount += row.Count
	}

	report.ExpectedBalance = session.OpeningBalance.Add(report.CashTotal)
	if !session.IsOpen() {
		report.CountedBalance = session.ClosingBalance
		if session.ClosingBalance != nil {
			variance := session.ClosingBalance.Sub(report.ExpectedBalance)
			report.Variance = &variance
		}
	}

	s.LogInfo(ctx, "Session report generated",
		slog.String("session_id", sessionID),
		slog.Int("movement_count", report.MovementCount))
	return report, nil
}
