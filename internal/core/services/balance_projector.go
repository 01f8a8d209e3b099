package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// balanceProjector keeps the stored balances (drawer totals, account balances,
// stock levels) equal to the sum of their movements. It must run inside the
// transaction that appended the movement.
type balanceProjector struct {
	BaseService
}

// Apply locks the balance row m affects, applies m and returns the balance
// around it plus the events the change raises.
func (p *balanceProjector) Apply(ctx context.Context, tx portsrepo.LedgerTx, m domain.Movement) (domain.Balance, []domain.Event, error) {
	var (
		bal    domain.Balance
		events []domain.Event
		err    error
	)
	switch m.Category {
	case domain.CategoryCash:
		bal, err = p.applyCash(ctx, tx, m)
	case domain.CategoryAccount:
		bal, events, err = p.applyAccount(ctx, tx, m)
	case domain.CategoryStock:
		bal, err = p.applyStock(ctx, tx, m)
	default:
		err = apperrors.NewValidationError("unknown movement category %q", m.Category)
	}
	if err != nil {
		return domain.Balance{}, nil, err
	}

	posted := domain.MovementPosted{Movement: m, Before: bal.Previous, After: bal.Current}
	return bal, append([]domain.Event{posted}, events...), nil
}

func (p *balanceProjector) applyCash(ctx context.Context, tx portsrepo.LedgerTx, m domain.Movement) (domain.Balance, error) {
	session, err := tx.LockOpenSession(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Balance{}, apperrors.ErrNoOpenSession
		}
		return domain.Balance{}, fmt.Errorf("failed to lock cash session: %w", err)
	}
	if session.ID != m.AccountID {
		return domain.Balance{}, fmt.Errorf("%w: movement targets session %s", apperrors.ErrSessionClosed, m.AccountID)
	}

	previous := session.DrawerBalance()
	cashTotal, nonCashTotal := session.CashTotal, session.NonCashTotal
	if m.Tender == domain.TenderCash {
		cashTotal = cashTotal.Add(m.Amount)
	} else {
		nonCashTotal = nonCashTotal.Add(m.Amount)
	}
	if err := tx.UpdateSessionTotals(ctx, session.ID, cashTotal, nonCashTotal); err != nil {
		return domain.Balance{}, fmt.Errorf("failed to update session totals: %w", err)
	}

	return domain.Balance{
		Category:  domain.CategoryCash,
		AccountID: session.ID,
		Previous:  previous,
		Current:   session.OpeningBalance.Add(cashTotal),
	}, nil
}

func (p *balanceProjector) applyAccount(ctx context.Context, tx portsrepo.LedgerTx, m domain.Movement) (domain.Balance, []domain.Event, error) {
	acc, err := tx.LockCustomerAccount(ctx, m.AccountID)
	if err != nil {
		return domain.Balance{}, nil, fmt.Errorf("failed to lock customer account %s: %w", m.AccountID, err)
	}
	if acc.Status == domain.AccountClosed && m.Kind == domain.KindOriginal {
		return domain.Balance{}, nil, fmt.Errorf("%w: %s", apperrors.ErrAccountClosed, acc.ID)
	}

	previous := acc.Balance
	next := previous.Add(m.Amount)
	if err := tx.UpdateCustomerAccountBalance(ctx, acc.ID, next, m.CreatedBy, m.CreatedAt); err != nil {
		return domain.Balance{}, nil, fmt.Errorf("failed to update customer account balance: %w", err)
	}

	var events []domain.Event
	if acc.CrossesCreditLimit(previous, next) {
		p.LogWarn(ctx, "Customer account crossed its credit limit",
			slog.String("account_id", acc.ID),
			slog.String("credit_limit", acc.CreditLimit.String()),
			slog.String("balance", next.String()))
		events = append(events, domain.CreditLimitExceeded{
			AccountID:   acc.ID,
			CustomerID:  acc.CustomerID,
			CreditLimit: *acc.CreditLimit,
			Previous:    previous,
			Current:     next,
			ReferenceID: m.ReferenceID,
		})
	}

	return domain.Balance{
		Category:  domain.CategoryAccount,
		AccountID: acc.ID,
		Previous:  previous,
		Current:   next,
	}, events, nil
}

func (p *balanceProjector) applyStock(ctx context.Context, tx portsrepo.LedgerTx, m domain.Movement) (domain.Balance, error) {
	line, err := tx.LockStockLine(ctx, m.AccountID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("failed to lock stock line %s: %w", m.AccountID, err)
	}

	delta := m.Amount.IntPart()
	if (delta > 0 && line.Stock > math.MaxInt64-delta) || (delta < 0 && line.Stock < math.MinInt64-delta) {
		return domain.Balance{}, apperrors.NewValidationError("stock level of %s would overflow: %d%+d", line.ProductID, line.Stock, delta)
	}
	if !line.CanApply(delta) {
		return domain.Balance{}, &apperrors.InsufficientStockError{
			ProductID: line.ProductID,
			Available: line.Stock,
			Requested: -delta,
		}
	}

	next := line.Stock + delta
	if err := tx.UpdateStockLevel(ctx, line.ProductID, next, m.CreatedBy, m.CreatedAt); err != nil {
		return domain.Balance{}, fmt.Errorf("failed to update stock level: %w", err)
	}

	return domain.Balance{
		Category:  domain.CategoryStock,
		AccountID: line.ProductID,
		Previous:  decimal.NewFromInt(line.Stock),
		Current:   decimal.NewFromInt(next),
	}, nil
}

// Current reports the present balance of the row m belongs to without
// changing it. Used when a movement is replayed.
func (p *balanceProjector) Current(ctx context.Context, r portsrepo.LedgerReader, m domain.Movement) (domain.Balance, error) {
	bal := domain.Balance{Category: m.Category, AccountID: m.AccountID}
	switch m.Category {
	case domain.CategoryCash:
		s, err := r.FindSessionByID(ctx, m.AccountID)
		if err != nil {
			return domain.Balance{}, fmt.Errorf("failed to read cash session %s: %w", m.AccountID, err)
		}
		bal.Current = s.DrawerBalance()
	case domain.CategoryAccount:
		acc, err := r.FindCustomerAccountByID(ctx, m.AccountID)
		if err != nil {
			return domain.Balance{}, fmt.Errorf("failed to read customer account %s: %w", m.AccountID, err)
		}
		bal.Current = acc.Balance
	case domain.CategoryStock:
		line, err := r.FindStockLine(ctx, m.AccountID)
		if err != nil {
			return domain.Balance{}, fmt.Errorf("failed to read stock line %s: %w", m.AccountID, err)
		}
		bal.Current = decimal.NewFromInt(line.Stock)
	}
	bal.Previous = bal.Current
	return bal, nil
}
