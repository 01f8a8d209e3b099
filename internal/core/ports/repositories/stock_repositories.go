package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// StockReader reads product stock lines.
type StockReader interface {
	FindStockLine(ctx context.Context, productID string) (*domain.StockLine, error)
}

// StockWriter mutates product stock lines inside a transaction.
type StockWriter interface {
	LockStockLine(ctx context.Context, productID string) (*domain.StockLine, error)
	// SaveStockLine returns apperrors.ErrDuplicate when the product is already registered.
	SaveStockLine(ctx context.Context, line domain.StockLine) error
	UpdateStockLevel(ctx context.Context, productID string, stock int64, userID string, now time.Time) error
	UpdateStockBackorder(ctx context.Context, productID string, allowBackorder bool, userID string, now time.Time) error
}
