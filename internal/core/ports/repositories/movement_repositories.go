package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementFilter selects movements for listing.
type MovementFilter struct {
	Category      domain.MovementCategory
	AccountID     string
	ReferenceID   string
	CreatedBefore *time.Time
}

// MovementReader reads the append-only movement logs.
type MovementReader interface {
	// FindMovementByKey returns apperrors.ErrNotFound when no movement holds the key.
	FindMovementByKey(ctx context.Context, key domain.MovementKey) (*domain.Movement, error)
	// FindOriginalMovementsByReference searches all three logs.
	FindOriginalMovementsByReference(ctx context.Context, referenceID string, referenceType domain.ReferenceType) ([]domain.Movement, error)
	// SumCashMovementsBySession returns the CASH and NON_CASH tender totals.
	SumCashMovementsBySession(ctx context.Context, sessionID string) (cash decimal.Decimal, nonCash decimal.Decimal, err error)
	// SumMovements sums an account or stock log for one account.
	SumMovements(ctx context.Context, category domain.MovementCategory, accountID string) (decimal.Decimal, error)
	ListMovements(ctx context.Context, filter MovementFilter, limit int, nextToken *string) ([]domain.Movement, *string, error)
}

// MovementWriter appends to the movement logs. There is no update or delete.
type MovementWriter interface {
	// InsertMovement returns inserted=false, without error, when a movement
	// with the same idempotency key already exists.
	InsertMovement(ctx context.Context, movement domain.Movement) (inserted bool, err error)
}
