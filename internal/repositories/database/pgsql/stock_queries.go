package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const stockColumns = `product_id, stock, allow_backorder, created_at, created_by, last_updated_at, last_updated_by`

func (q *ledgerQueries) findStockLine(ctx context.Context, query, productID string) (*domain.StockLine, error) {
	var m models.StockLine
	err := q.db.QueryRow(ctx, query, productID).Scan(
		&m.ProductID,
		&m.Stock,
		&m.AllowBackorder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("stock line " + productID)
		}
		return nil, fmt.Errorf("failed to read stock line %s: %w", productID, err)
	}
	line := mapping.ToDomainStockLine(m)
	return &line, nil
}

func (q *ledgerQueries) FindStockLine(ctx context.Context, productID string) (*domain.StockLine, error) {
	return q.findStockLine(ctx, `SELECT `+stockColumns+` FROM product_stock WHERE product_id = $1`, productID)
}

func (q *ledgerQueries) LockStockLine(ctx context.Context, productID string) (*domain.StockLine, error) {
	return q.findStockLine(ctx, `SELECT `+stockColumns+` FROM product_stock WHERE product_id = $1 FOR UPDATE`, productID)
}

func (q *ledgerQueries) SaveStockLine(ctx context.Context, line domain.StockLine) error {
	m := mapping.ToModelStockLine(line)
	query := `
		INSERT INTO product_stock (product_id, stock, allow_backorder, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.db.Exec(ctx, query, m.ProductID, m.Stock, m.AllowBackorder, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert stock line: %w", err)
	}
	return nil
}

func (q *ledgerQueries) UpdateStockLevel(ctx context.Context, productID string, stock int64, userID string, now time.Time) error {
	return q.execOne(ctx, "stock line "+productID,
		`UPDATE product_stock SET stock = $2, last_updated_at = $3, last_updated_by = $4 WHERE product_id = $1`,
		productID, stock, now, userID)
}

func (q *ledgerQueries) UpdateStockBackorder(ctx context.Context, productID string, allowBackorder bool, userID string, now time.Time) error {
	return q.execOne(ctx, "stock line "+productID,
		`UPDATE product_stock SET allow_backorder = $2, last_updated_at = $3, last_updated_by = $4 WHERE product_id = $1`,
		productID, allowBackorder, now, userID)
}
