package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
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

// ledgerService implements portssvc.LedgerSvcFacade. Every post or reversal
// runs as one transaction: guard, session check, append and projection for
// each leg, in a fixed lock order.
type ledgerService struct {
	BaseService
	repo      portsrepo.LedgerRepositoryFacade
	sessions  portssvc.CashSessionValidator
	log       *movementLog
	projector *balanceProjector
	guard     *idempotencyGuard
	retry     retryPolicy
	newID     func() string
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerPublisher sets where committed events go.
func WithLedgerPublisher(p portssvc.EventPublisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Publisher = p
	}
}

// WithLedgerRetry sets how many times a transiently failed transaction is re-run.
func WithLedgerRetry(maxRetries int, delay time.Duration) LedgerServiceOption {
	return func(s *ledgerService) {
		s.retry = retryPolicy{maxRetries: maxRetries, delay: delay}
	}
}

// WithLedgerClock overrides time.Now.
func WithLedgerClock(clock func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Clock = clock
	}
}

// WithLedgerIDGenerator overrides uuid generation for movement ids.
func WithLedgerIDGenerator(newID func() string) LedgerServiceOption {
	return func(s *ledgerService) {
		s.newID = newID
	}
}

// NewLedgerService creates the ledger façade.
func NewLedgerService(repo portsrepo.LedgerRepositoryFacade, sessions portssvc.CashSessionValidator, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		repo:      repo,
		sessions:  sessions,
		log:       &movementLog{},
		projector: &balanceProjector{},
		guard:     &idempotencyGuard{},
		retry:     defaultRetryPolicy,
		newID:     uuid.NewString,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// plannedMovement is one leg of a post. expectedSession is the session id the
// caller pinned a cash leg to, if any.
type plannedMovement struct {
	movement        domain.Movement
	expectedSession string
}

func (s *ledgerService) Post(ctx context.Context, req domain.PostRequest) (*domain.LedgerResult, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("reference_id", req.ReferenceID),
		slog.String("kind", string(req.Kind)))

	planned, err := s.planPost(req)
	if err != nil {
		logger.Warn("Rejected ledger post", slog.String("error", err.Error()))
		return nil, err
	}

	result, events, err := s.execute(ctx, "post", req.ReferenceID, req.Kind.ReferenceType(), func(ctx context.Context, tx portsrepo.LedgerTx) ([]plannedMovement, error) {
		return planned, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Ledger post failed", req.ReferenceID)
		return nil, err
	}

	logger.Info("Ledger post recorded",
		slog.Int("movement_count", len(result.Movements)),
		slog.Bool("replayed", result.Replayed))
	s.PublishEvents(ctx, events...)
	return result, nil
}

func (s *ledgerService) Reverse(ctx context.Context, req domain.ReverseRequest) (*domain.LedgerResult, error) {
	refID := strings.TrimSpace(req.ReferenceID)
	switch {
	case refID == "":
		return nil, apperrors.NewValidationError("reference id is required")
	case req.ActorID == "":
		return nil, apperrors.NewValidationError("actor id is required")
	case !req.ReferenceType.IsValid():
		return nil, apperrors.NewValidationError("unknown reference type %q", req.ReferenceType)
	case req.ReferenceType.IsReversal():
		return nil, apperrors.NewValidationError("a reversal cannot itself be reversed")
	}

	reversalType := req.ReferenceType.Reversal()
	result, events, err := s.execute(ctx, "reverse", refID, reversalType, func(ctx context.Context, tx portsrepo.LedgerTx) ([]plannedMovement, error) {
		originals, err := tx.FindOriginalMovementsByReference(ctx, refID, req.ReferenceType)
		if err != nil {
			return nil, fmt.Errorf("failed to load movements to reverse: %w", err)
		}
		if len(originals) == 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("movements for %s %s", req.ReferenceType, refID))
		}

		now := s.Now()
		planned := make([]plannedMovement, 0, len(originals))
		for _, orig := range originals {
			reversesID := orig.ID
			m := domain.Movement{
				ID:                 s.newID(),
				Category:           orig.Category,
				AccountID:          orig.AccountID,
				Amount:             orig.Amount.Neg(),
				Tender:             orig.Tender,
				Source:             orig.Source,
				PaymentMethodID:    orig.PaymentMethodID,
				ReferenceID:        refID,
				ReferenceType:      reversalType,
				Kind:               domain.KindReversal,
				ReversesMovementID: &reversesID,
				CreatedAt:          now,
				CreatedBy:          req.ActorID,
			}
			if m.Category == domain.CategoryCash {
				// Lands in whichever session is open now.
				m.AccountID = ""
			}
			planned = append(planned, plannedMovement{movement: m})
		}
		sortByLockOrder(planned)
		return planned, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Ledger reversal failed", refID)
		return nil, err
	}

	s.LogInfo(ctx, "Ledger reversal recorded",
		slog.String("reference_id", refID),
		slog.String("reference_type", string(req.ReferenceType)),
		slog.Int("movement_count", len(result.Movements)),
		slog.Bool("replayed", result.Replayed))
	s.PublishEvents(ctx, events...)
	return result, nil
}

// execute runs plan and every resulting leg in one transaction, retrying the
// whole transaction on transient failures. Events are only returned once the
// transaction committed.
func (s *ledgerService) execute(
	ctx context.Context,
	op string,
	referenceID string,
	referenceType domain.ReferenceType,
	plan func(ctx context.Context, tx portsrepo.LedgerTx) ([]plannedMovement, error),
) (*domain.LedgerResult, []domain.Event, error) {
	var (
		result *domain.LedgerResult
		events []domain.Event
	)
	err := s.withRetry(ctx, s.retry, op, func(ctx context.Context) error {
		result = &domain.LedgerResult{ReferenceID: referenceID, ReferenceType: referenceType, Replayed: true}
		events = nil
		return s.repo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			planned, err := plan(ctx, tx)
			if err != nil {
				return err
			}
			for _, p := range planned {
				m, bal, evts, fresh, err := s.postMovement(ctx, tx, p)
				if err != nil {
					return err
				}
				result.Movements = append(result.Movements, m)
				result.Balances = append(result.Balances, bal)
				if fresh {
					result.Replayed = false
					events = append(events, evts...)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return result, events, nil
}

func (s *ledgerService) postMovement(ctx context.Context, tx portsrepo.LedgerTx, p plannedMovement) (domain.Movement, domain.Balance, []domain.Event, bool, error) {
	m := p.movement

	res, err := s.guard.CheckAndReserve(ctx, tx, m.Category, m.AccountID, m.ReferenceID, m.ReferenceType)
	if err != nil {
		return domain.Movement{}, domain.Balance{}, nil, false, err
	}
	if !res.Fresh {
		bal, err := s.projector.Current(ctx, tx, *res.Existing)
		return *res.Existing, bal, nil, false, err
	}

	if m.Category == domain.CategoryCash {
		session, err := s.sessions.ValidateForPosting(ctx, tx, p.expectedSession)
		if err != nil {
			return domain.Movement{}, domain.Balance{}, nil, false, err
		}
		m.AccountID = session.ID
	}

	saved, fresh, err := s.log.Append(ctx, tx, m)
	if err != nil {
		return domain.Movement{}, domain.Balance{}, nil, false, err
	}
	if !fresh {
		bal, err := s.projector.Current(ctx, tx, saved)
		return saved, bal, nil, false, err
	}

	bal, events, err := s.projector.Apply(ctx, tx, saved)
	if err != nil {
		return domain.Movement{}, domain.Balance{}, nil, false, err
	}
	return saved, bal, events, true, nil
}

// planPost turns a request into signed movements, ordered by lock rank.
func (s *ledgerService) planPost(req domain.PostRequest) ([]plannedMovement, error) {
	refType := req.Kind.ReferenceType()
	if refType == "" {
		return nil, apperrors.NewValidationError("unknown post kind %q", req.Kind)
	}
	refID := strings.TrimSpace(req.ReferenceID)
	if refID == "" {
		return nil, apperrors.NewValidationError("reference id is required")
	}
	if req.ActorID == "" {
		return nil, apperrors.NewValidationError("actor id is required")
	}
	if req.Cash == nil && req.Account == nil && len(req.Stock) == 0 {
		return nil, apperrors.NewValidationError("a post needs at least one cash, account or stock leg")
	}

	now := s.Now()
	base := domain.Movement{
		ReferenceID:   refID,
		ReferenceType: refType,
		Kind:          domain.KindOriginal,
		CreatedAt:     now,
		CreatedBy:     req.ActorID,
	}

	var planned []plannedMovement
	if req.Cash != nil {
		amount, err := accounting.SignedAmount(req.Kind, domain.CategoryCash, req.Cash.Amount)
		if err != nil {
			return nil, err
		}
		tender := req.Cash.Tender
		if tender == "" {
			tender = domain.TenderCash
		}
		if !tender.IsValid() {
			return nil, apperrors.NewValidationError("unknown tender %q", tender)
		}
		m := base
		m.ID = s.newID()
		m.Category = domain.CategoryCash
		m.Amount = amount
		m.Tender = tender
		m.PaymentMethodID = req.PaymentMethodID
		planned = append(planned, plannedMovement{movement: m, expectedSession: req.Cash.SessionID})
	}

	if req.Account != nil {
		if req.Account.AccountID == "" {
			return nil, apperrors.NewValidationError("account leg needs an account id")
		}
		amount, err := accounting.SignedAmount(req.Kind, domain.CategoryAccount, req.Account.Amount)
		if err != nil {
			return nil, err
		}
		m := base
		m.ID = s.newID()
		m.Category = domain.CategoryAccount
		m.AccountID = req.Account.AccountID
		m.Amount = amount
		planned = append(planned, plannedMovement{movement: m})
	}

	seen := make(map[string]struct{}, len(req.Stock))
	for _, leg := range req.Stock {
		if leg.ProductID == "" {
			return nil, apperrors.NewValidationError("stock leg needs a product id")
		}
		if _, dup := seen[leg.ProductID]; dup {
			return nil, apperrors.NewValidationError("product %s appears more than once", leg.ProductID)
		}
		seen[leg.ProductID] = struct{}{}

		qty, err := accounting.SignedQuantity(req.Kind, leg.Quantity)
		if err != nil {
			return nil, err
		}
		m := base
		m.ID = s.newID()
		m.Category = domain.CategoryStock
		m.AccountID = leg.ProductID
		m.Amount = decimal.NewFromInt(qty)
		m.Source = req.Kind.StockSource()
		planned = append(planned, plannedMovement{movement: m})
	}

	sortByLockOrder(planned)
	return planned, nil
}

func sortByLockOrder(planned []plannedMovement) {
	sort.SliceStable(planned, func(i, j int) bool {
		a, b := planned[i].movement, planned[j].movement
		if a.Category.LockRank() != b.Category.LockRank() {
			return a.Category.LockRank() < b.Category.LockRank()
		}
		return a.AccountID < b.AccountID
	})
}

func (s *ledgerService) logFailure(ctx context.Context, err error, msg, referenceID string) {
	var stockErr *apperrors.InsufficientStockError
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrNoOpenSession),
		errors.Is(err, apperrors.ErrSessionClosed),
		errors.Is(err, apperrors.ErrAccountClosed),
		errors.As(err, &stockErr):
		s.LogWarn(ctx, msg, slog.String("reference_id", referenceID), slog.String("error", err.Error()))
	default:
		s.LogError(ctx, err, msg, slog.String("reference_id", referenceID))
	}
}

func (s *ledgerService) ListMovements(ctx context.Context, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	if !params.Category.IsValid() {
		return nil, apperrors.NewValidationError("unknown movement category %q", params.Category)
	}
	filter := portsrepo.MovementFilter{
		Category:    params.Category,
		AccountID:   params.AccountID,
		ReferenceID: params.ReferenceID,
	}
	movements, next, err := s.repo.ListMovements(ctx, filter, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list movements", slog.String("category", string(params.Category)))
		}
		return nil, err
	}
	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(movements),
		NextToken: next,
	}, nil
}

// VerifyBalance locks the balance row so no post can land between reading
// the stored value and summing the log.
func (s *ledgerService) VerifyBalance(ctx context.Context, category domain.MovementCategory, accountID string) (*domain.BalanceCheck, error) {
	if !category.IsValid() {
		return nil, apperrors.NewValidationError("unknown movement category %q", category)
	}
	if accountID == "" {
		return nil, apperrors.NewValidationError("account id is required")
	}

	check := &domain.BalanceCheck{Category: category, AccountID: accountID}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		switch category {
		case domain.CategoryCash:
			session, err := tx.FindSessionByID(ctx, accountID)
			if err != nil {
				return err
			}
			if session.IsOpen() {
				if session, err = tx.LockOpenSession(ctx); err != nil {
					return err
				}
			}
			cashSum, nonCashSum, err := tx.SumCashMovementsBySession(ctx, accountID)
			if err != nil {
				return err
			}
			check.Stored = session.DrawerBalance()
			check.Reconstructed = session.OpeningBalance.Add(cashSum)
			check.Consistent = cashSum.Equal(session.CashTotal) && nonCashSum.Equal(session.NonCashTotal)
		case domain.CategoryAccount:
			acc, err := tx.LockCustomerAccount(ctx, accountID)
			if err != nil {
				return err
			}
			sum, err := tx.SumMovements(ctx, category, accountID)
			if err != nil {
				return err
			}
			check.Stored = acc.Balance
			check.Reconstructed = sum
			check.Consistent = acc.Balance.Equal(sum)
		case domain.CategoryStock:
			line, err := tx.LockStockLine(ctx, accountID)
			if err != nil {
				return err
			}
			sum, err := tx.SumMovements(ctx, category, accountID)
			if err != nil {
				return err
			}
			check.Stored = decimal.NewFromInt(line.Stock)
			check.Reconstructed = sum
			check.Consistent = check.Stored.Equal(sum)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !check.Consistent {
		s.LogError(ctx, errors.New("stored balance differs from movement log"), "Balance verification failed",
			slog.String("category", string(category)),
			slog.String("account_id", accountID),
			slog.String("stored", check.Stored.String()),
			slog.String("reconstructed", check.Reconstructed.String()))
	}
	return check, nil
}
