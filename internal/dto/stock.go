package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// CreateStockLineRequest registers a product with the stock ledger. Stock starts at zero.
type CreateStockLineRequest struct {
	ProductID      string `json:"productId" binding:"required,max=128"`
	AllowBackorder bool   `json:"allowBackorder"`
}

// UpdateBackorderRequest mirrors the catalog's backorder policy.
type UpdateBackorderRequest struct {
	AllowBackorder *bool `json:"allowBackorder" binding:"required"`
}

// StockLineResponse mirrors domain.StockLine.
type StockLineResponse struct {
	ProductID      string    `json:"productId"`
	Stock          int64     `json:"stock"`
	AllowBackorder bool      `json:"allowBackorder"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

func ToStockLineResponse(l *domain.StockLine) StockLineResponse {
	return StockLineResponse{
		ProductID:      l.ProductID,
		Stock:          l.Stock,
		AllowBackorder: l.AllowBackorder,
		LastUpdatedAt:  l.LastUpdatedAt,
		LastUpdatedBy:  l.LastUpdatedBy,
	}
}
