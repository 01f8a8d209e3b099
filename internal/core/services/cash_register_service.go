package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/utils/accounting"
	"github.com/SscSPs/pos_ledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cashRegisterService implements portssvc.CashRegisterSvcFacade
type cashRegisterService struct {
	BaseService
	repo       portsrepo.LedgerRepositoryFacade
	staleAfter time.Duration
	retry      retryPolicy
}

// CashRegisterServiceOption is a functional option for configuring the cash register service
type CashRegisterServiceOption func(*cashRegisterService)

// WithStaleAfter sets how long a session may stay open before it is flagged.
func WithStaleAfter(d time.Duration) CashRegisterServiceOption {
	return func(s *cashRegisterService) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithCashRegisterPublisher sets where session lifecycle events go.
func WithCashRegisterPublisher(p portssvc.EventPublisher) CashRegisterServiceOption {
	return func(s *cashRegisterService) {
		s.Publisher = p
	}
}

// WithCashRegisterClock overrides time.Now.
func WithCashRegisterClock(clock func() time.Time) CashRegisterServiceOption {
	return func(s *cashRegisterService) {
		s.Clock = clock
	}
}

// WithCashRegisterRetry sets the transient-failure retry policy for close.
func WithCashRegisterRetry(maxRetries int, delay time.Duration) CashRegisterServiceOption {
	return func(s *cashRegisterService) {
		s.retry = retryPolicy{maxRetries: maxRetries, delay: delay}
	}
}

// NewCashRegisterService creates a new cash register service with the provided options
func NewCashRegisterService(repo portsrepo.LedgerRepositoryFacade, options ...CashRegisterServiceOption) portssvc.CashRegisterSvcFacade {
	svc := &cashRegisterService{
		repo:       repo,
		staleAfter: domain.DefaultStaleAfter,
		retry:      defaultRetryPolicy,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CashRegisterSvcFacade = (*cashRegisterService)(nil)

func (s *cashRegisterService) OpenSession(ctx context.Context, openingBalance decimal.Decimal, userID string) (*domain.CashRegisterSession, error) {
	if openingBalance.IsNegative() {
		return nil, apperrors.NewValidationError("opening balance must not be negative")
	}
	if err := accounting.CheckMoney("opening balance", openingBalance); err != nil {
		return nil, err
	}

	session := domain.CashRegisterSession{
		ID:             uuid.NewString(),
		Status:         domain.SessionOpen,
		OpeningBalance: openingBalance,
		CashTotal:      decimal.Zero,
		NonCashTotal:   decimal.Zero,
		OpenedAt:       s.Now(),
		OpenedBy:       userID,
	}

	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.InsertSession(ctx, session)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionAlreadyOpen) {
			s.LogWarn(ctx, "Refused to open a second cash register session", slog.String("user_id", userID))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to open cash register session", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to open cash register session: %w", err)
	}

	s.LogInfo(ctx, "Cash register session opened",
		slog.String("session_id", session.ID),
		slog.String("opening_balance", openingBalance.String()),
		slog.String("user_id", userID))
	s.PublishEvents(ctx, domain.CashSessionOpened{Session: session})
	return &session, nil
}

// CloseSession reconciles against the movement log rather than the running
// totals, so a drifted total shows up as an error log instead of a silent
// variance.
func (s *cashRegisterService) CloseSession(ctx context.Context, userID string, countedBalance decimal.Decimal) (*domain.CashRegisterSession, error) {
	if countedBalance.IsNegative() {
		return nil, apperrors.NewValidationError("counted balance must not be negative")
	}
	if err := accounting.CheckMoney("counted balance", countedBalance); err != nil {
		return nil, err
	}

	var closed domain.CashRegisterSession
	err := s.withRetry(ctx, s.retry, "close_cash_session", func(ctx context.Context) error {
		return s.repo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			session, err := tx.LockOpenSession(ctx)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.ErrNoOpenSession
				}
				return fmt.Errorf("failed to lock open session: %w", err)
			}

			cashSum, nonCashSum, err := tx.SumCashMovementsBySession(ctx, session.ID)
			if err != nil {
				return fmt.Errorf("failed to sum session movements: %w", err)
			}
			if !cashSum.Equal(session.CashTotal) || !nonCashSum.Equal(session.NonCashTotal) {
				s.LogError(ctx, errors.New("running totals drifted from movement log"), "Cash session totals inconsistent at close",
					slog.String("session_id", session.ID),
					slog.String("stored_cash_total", session.CashTotal.String()),
					slog.String("log_cash_total", cashSum.String()),
					slog.String("stored_non_cash_total", session.NonCashTotal.String()),
					slog.String("log_non_cash_total", nonCashSum.String()))
			}

			now := s.Now()
			expected := session.OpeningBalance.Add(cashSum)
			variance := countedBalance.Sub(expected)
			closedBy := userID

			session.Status = domain.SessionClosed
			session.CashTotal = cashSum
			session.NonCashTotal = nonCashSum
			session.ClosedAt = &now
			session.ClosedBy = &closedBy
			session.ExpectedBalance = &expected
			session.ClosingBalance = &countedBalance
			session.Variance = &variance

			if err := tx.CloseSession(ctx, *session); err != nil {
				return fmt.Errorf("failed to close session: %w", err)
			}
			closed = *session
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNoOpenSession) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to close cash register session", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Cash register session closed",
		slog.String("session_id", closed.ID),
		slog.String("expected_balance", closed.ExpectedBalance.String()),
		slog.String("counted_balance", countedBalance.String()),
		slog.String("variance", closed.Variance.String()))
	s.PublishEvents(ctx, domain.CashSessionClosed{Session: closed})
	return &closed, nil
}

func (s *cashRegisterService) CurrentSession(ctx context.Context) (*domain.CashRegisterSession, error) {
	session, err := s.repo.FindOpenSession(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNoOpenSession
		}
		return nil, fmt.Errorf("failed to read open session: %w", err)
	}
	return session, nil
}

func (s *cashRegisterService) GetSession(ctx context.Context, sessionID string) (*domain.CashRegisterSession, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to read cash register session", slog.String("session_id", sessionID))
		}
		return nil, err
	}
	return session, nil
}

func (s *cashRegisterService) ListSessions(ctx context.Context, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error) {
	sessions, next, err := s.repo.ListSessions(ctx, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	resp := &dto.ListSessionsResponse{
		Sessions:  make([]dto.SessionResponse, 0, len(sessions)),
		NextToken: next,
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, dto.ToSessionResponse(&sessions[i], s.IsStale(sessions[i], now)))
	}
	return resp, nil
}

func (s *cashRegisterService) IsStale(session domain.CashRegisterSession, now time.Time) bool {
	return session.IsStale(now, s.staleAfter)
}

// ValidateForPosting locks the open session inside tx. A non-empty
// expectedSessionID must name that session.
func (s *cashRegisterService) ValidateForPosting(ctx context.Context, tx portsrepo.LedgerTx, expectedSessionID string) (*domain.CashRegisterSession, error) {
	session, err := tx.LockOpenSession(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNoOpenSession
		}
		return nil, fmt.Errorf("failed to lock open session: %w", err)
	}
	if expectedSessionID != "" && expectedSessionID != session.ID {
		return nil, fmt.Errorf("%w: %s is not the open session", apperrors.ErrSessionClosed, expectedSessionID)
	}
	return session, nil
}
