package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// StockSvcFacade administers product stock lines. Stock levels are only
// changed by the ledger.
type StockSvcFacade interface {
	RegisterStockLine(ctx context.Context, req dto.CreateStockLineRequest, userID string) (*domain.StockLine, error)
	GetStockLine(ctx context.Context, productID string) (*domain.StockLine, error)
	SetBackorder(ctx context.Context, productID string, allowBackorder bool, userID string) (*domain.StockLine, error)
}
