// Package memory is an in-process implementation of the ledger repositories.
// A transaction holds the store's write lock for its whole duration and is
// rolled back by replaying undo closures, which gives the same all-or-nothing
// and serialized-per-row guarantees the Postgres store gets from row locks.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store implements portsrepo.LedgerRepositoryFacade and
// portsrepo.ReportingRepositoryFacade.
type Store struct {
	mu        sync.RWMutex
	t         *tables
	txTimeout time.Duration

	faultsMu     sync.Mutex
	commitFaults []error
}

var (
	_ portsrepo.LedgerRepositoryFacade    = (*Store)(nil)
	_ portsrepo.ReportingRepositoryFacade = (*Store)(nil)
)

// NewStore creates an empty store. txTimeout bounds every transaction; zero
// means no bound beyond the caller's context.
func NewStore(txTimeout time.Duration) *Store {
	return &Store{t: newTables(), txTimeout: txTimeout}
}

// NewRepositoryProvider wires a fresh store into a portsrepo.RepositoryProvider.
func NewRepositoryProvider(txTimeout time.Duration) (portsrepo.RepositoryProvider, *Store) {
	s := NewStore(txTimeout)
	return portsrepo.RepositoryProvider{LedgerRepo: s, ReportingRepo: s}, s
}

// InjectCommitError makes the next commit fail with err after fn has run,
// rolling the transaction back. Used to exercise retry and atomicity paths.
func (s *Store) InjectCommitError(err error) {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	s.commitFaults = append(s.commitFaults, err)
}

func (s *Store) nextCommitFault() error {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	if len(s.commitFaults) == 0 {
		return nil
	}
	err := s.commitFaults[0]
	s.commitFaults = s.commitFaults[1:]
	return err
}

// WithinTx runs fn with exclusive access to the store.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return translateCtxErr(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.t.undo = nil
	err := fn(ctx, s.t)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = s.nextCommitFault()
	}
	if err != nil {
		s.t.rollback()
		return translateCtxErr(err)
	}
	s.t.undo = nil
	return nil
}

func translateCtxErr(err error) error {
	var timeoutErr *apperrors.TransactionTimeoutError
	if errors.As(err, &timeoutErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperrors.TransactionTimeoutError{Err: err}
	}
	return err
}

// --- lock-free reads (read committed: only committed state is visible) ---

func (s *Store) FindMovementByKey(ctx context.Context, key domain.MovementKey) (*domain.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.FindMovementByKey(ctx, key)
}

func (s *Store) FindOriginalMovementsByReference(ctx context.Context, referenceID string, referenceType domain.ReferenceType) ([]domain.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.FindOriginalMovementsByReference(ctx, referenceID, referenceType)
}

func (s *Store) SumCashMovementsBySession(ctx context.Context, sessionID string) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.SumCashMovementsBySession(ctx, sessionID)
}

func (s *Store) SumMovements(ctx context.Context, category domain.MovementCategory, accountID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.SumMovements(ctx, category, accountID)
}

func (s *Store) ListMovements(ctx context.Context, filter portsrepo.MovementFilter, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListMovements(ctx, filter, limit, nextToken)
}

func (s *Store) FindOpenSession(ctx context.Context) (*domain.CashRegisterSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.FindOpenSession(ctx)
}

func (s *Store) FindSessionByID(ctx context.Context, sessionID string) (*domain.CashRegisterSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.FindSessionByID(ctx, sessionID)
}

func (s *Store) ListSessions(ctx context.Context, limit int, nextToken *string) ([]domain.CashRegisterSession, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListSessions(ctx, limit, nextToken)
}

func (s *Store) FindCustomerAccountByID(ctx context.Context, accountID string) (*domain.CustomerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.FindCustomerAccountByID(ctx, accountID)
}

func (s *Store) FindCustomerAccountByCustomerID(ctx context.Context, customerID string) (*domain.CustomerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.FindCustomerAccountByCustomerID(ctx, customerID)
}

func (s *Store) FindStockLine(ctx context.Context, productID string) (*domain.StockLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.FindStockLine(ctx, productID)
}

func (s *Store) SessionPaymentBreakdown(_ context.Context, sessionID string) ([]domain.PaymentMethodTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.sessionPaymentBreakdown(sessionID), nil
}

// MovementCount returns the number of movements in every log. Test helper.
func (s *Store) MovementCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.t.movements)
}
