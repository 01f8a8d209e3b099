package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/SscSPs/pos_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// movementTable describes how one ledger is stored. columns always yields
// the models.Movement column order.
type movementTable struct {
	name       string
	accountCol string
	amountCol  string
	columns    string
	// keyCols is the idempotency unique constraint.
	keyCols string
}

var movementTables = map[domain.MovementCategory]movementTable{
	domain.CategoryCash: {
		name:       "cash_movements",
		accountCol: "session_id",
		amountCol:  "amount",
		columns:    "movement_id, session_id, amount, tender, NULL::text, payment_method_id, reference_id, reference_type, kind, reverses_movement_id, created_at, created_by",
		keyCols:    "reference_id, reference_type",
	},
	domain.CategoryAccount: {
		name:       "account_movements",
		accountCol: "account_id",
		amountCol:  "amount",
		columns:    "movement_id, account_id, amount, NULL::text, NULL::text, NULL::text, reference_id, reference_type, kind, reverses_movement_id, created_at, created_by",
		keyCols:    "account_id, reference_id, reference_type",
	},
	domain.CategoryStock: {
		name:       "stock_movements",
		accountCol: "product_id",
		amountCol:  "quantity",
		columns:    "movement_id, product_id, quantity::numeric, NULL::text, source, NULL::text, reference_id, reference_type, kind, reverses_movement_id, created_at, created_by",
		keyCols:    "product_id, reference_id, reference_type",
	},
}

// lockOrder is the order reversals visit the logs in.
var lockOrder = []domain.MovementCategory{domain.CategoryStock, domain.CategoryAccount, domain.CategoryCash}

func tableFor(category domain.MovementCategory) (movementTable, error) {
	t, ok := movementTables[category]
	if !ok {
		return movementTable{}, apperrors.NewValidationError("unknown movement category %q", category)
	}
	return t, nil
}

func scanMovement(row pgx.Row) (models.Movement, error) {
	var m models.Movement
	err := row.Scan(
		&m.MovementID,
		&m.AccountID,
		&m.Amount,
		&m.Tender,
		&m.Source,
		&m.PaymentMethodID,
		&m.ReferenceID,
		&m.ReferenceType,
		&m.Kind,
		&m.ReversesMovementID,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

func collectMovements(category domain.MovementCategory, rows pgx.Rows) ([]domain.Movement, error) {
	defer rows.Close()
	var out []domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s movement: %w", category, err)
		}
		out = append(out, mapping.ToDomainMovement(category, m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s movements: %w", category, err)
	}
	return out, nil
}

// InsertMovement relies on the idempotency constraint: a conflicting insert
// returns no row and reports inserted=false.
func (q *ledgerQueries) InsertMovement(ctx context.Context, m domain.Movement) (bool, error) {
	t, err := tableFor(m.Category)
	if err != nil {
		return false, err
	}
	row := mapping.ToModelMovement(m)

	var query string
	var args []any
	switch m.Category {
	case domain.CategoryCash:
		query = `
			INSERT INTO cash_movements (movement_id, session_id, amount, tender, payment_method_id, reference_id, reference_type, kind, reverses_movement_id, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		args = []any{row.MovementID, row.AccountID, row.Amount, row.Tender, row.PaymentMethodID, row.ReferenceID, row.ReferenceType, row.Kind, row.ReversesMovementID, row.CreatedAt, row.CreatedBy}
	case domain.CategoryAccount:
		query = `
			INSERT INTO account_movements (movement_id, account_id, amount, reference_id, reference_type, kind, reverses_movement_id, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		args = []any{row.MovementID, row.AccountID, row.Amount, row.ReferenceID, row.ReferenceType, row.Kind, row.ReversesMovementID, row.CreatedAt, row.CreatedBy}
	case domain.CategoryStock:
		query = `
			INSERT INTO stock_movements (movement_id, product_id, quantity, source, reference_id, reference_type, kind, reverses_movement_id, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		args = []any{row.MovementID, row.AccountID, row.Amount.IntPart(), row.Source, row.ReferenceID, row.ReferenceType, row.Kind, row.ReversesMovementID, row.CreatedAt, row.CreatedBy}
	}
	query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING RETURNING movement_id", t.keyCols)

	var id string
	if err := q.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}
	return true, nil
}

func (q *ledgerQueries) FindMovementByKey(ctx context.Context, key domain.MovementKey) (*domain.Movement, error) {
	t, err := tableFor(key.Category)
	if err != nil {
		return nil, err
	}
	key = key.Normalized()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE reference_id = $1 AND reference_type = $2", t.columns, t.name)
	args := []any{key.ReferenceID, string(key.ReferenceType)}
	if key.Category != domain.CategoryCash {
		query += fmt.Sprintf(" AND %s = $3", t.accountCol)
		args = append(args, key.AccountID)
	}

	m, err := scanMovement(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s movement: %w", key.Category, err)
	}
	d := mapping.ToDomainMovement(key.Category, m)
	return &d, nil
}

func (q *ledgerQueries) FindOriginalMovementsByReference(ctx context.Context, referenceID string, referenceType domain.ReferenceType) ([]domain.Movement, error) {
	var out []domain.Movement
	for _, category := range lockOrder {
		t := movementTables[category]
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE reference_id = $1 AND reference_type = $2 AND kind = 'ORIGINAL' ORDER BY %s, movement_id`,
			t.columns, t.name, t.accountCol)
		rows, err := q.db.Query(ctx, query, referenceID, string(referenceType))
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
		}
		found, err := collectMovements(category, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

func (q *ledgerQueries) SumCashMovementsBySession(ctx context.Context, sessionID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE tender = 'CASH'), 0),
			COALESCE(SUM(amount) FILTER (WHERE tender = 'NON_CASH'), 0)
		FROM cash_movements
		WHERE session_id = $1`
	var cash, nonCash decimal.Decimal
	if err := q.db.QueryRow(ctx, query, sessionID).Scan(&cash, &nonCash); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum cash movements: %w", err)
	}
	return cash, nonCash, nil
}

func (q *ledgerQueries) SumMovements(ctx context.Context, category domain.MovementCategory, accountID string) (decimal.Decimal, error) {
	t, err := tableFor(category)
	if err != nil {
		return decimal.Zero, err
	}
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0)::numeric FROM %s WHERE %s = $1", t.amountCol, t.name, t.accountCol)
	var sum decimal.Decimal
	if err := q.db.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s: %w", t.name, err)
	}
	return sum, nil
}

// ListMovements pages newest first using a (created_at, movement_id) cursor.
func (q *ledgerQueries) ListMovements(ctx context.Context, filter portsrepo.MovementFilter, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	t, err := tableFor(filter.Category)
	if err != nil {
		return nil, nil, err
	}
	limit = pagination.ClampLimit(limit)

	var conds []string
	var args []any
	addCond := func(format string, values ...any) {
		placeholders := make([]any, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = len(args)
		}
		conds = append(conds, fmt.Sprintf(format, placeholders...))
	}

	if filter.AccountID != "" {
		addCond(t.accountCol+" = $%d", filter.AccountID)
	}
	if filter.ReferenceID != "" {
		addCond("reference_id = $%d", filter.ReferenceID)
	}
	if filter.CreatedBefore != nil {
		addCond("created_at < $%d", *filter.CreatedBefore)
	}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: %s", decodeErr.Error())
		}
		addCond("(created_at, movement_id) < ($%d, $%d)", lastCreatedAt, lastID)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", t.columns, t.name)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, movement_id DESC LIMIT $%d", len(args))

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	movements, err := collectMovements(filter.Category, rows)
	if err != nil {
		return nil, nil, err
	}

	if len(movements) <= limit {
		return movements, nil, nil
	}
	movements = movements[:limit]
	last := movements[len(movements)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.ID)
	return movements, &token, nil
}
