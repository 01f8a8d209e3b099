package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/SscSPs/pos_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const sessionColumns = `session_id, status, opening_balance, cash_total, non_cash_total, opened_at, opened_by,
	closed_at, closed_by, expected_balance, closing_balance, variance`

func scanSession(row pgx.Row) (models.CashRegisterSession, error) {
	var s models.CashRegisterSession
	err := row.Scan(
		&s.SessionID,
		&s.Status,
		&s.OpeningBalance,
		&s.CashTotal,
		&s.NonCashTotal,
		&s.OpenedAt,
		&s.OpenedBy,
		&s.ClosedAt,
		&s.ClosedBy,
		&s.ExpectedBalance,
		&s.ClosingBalance,
		&s.Variance,
	)
	return s, err
}

func (q *ledgerQueries) findSession(ctx context.Context, query string, args ...any) (*domain.CashRegisterSession, error) {
	m, err := scanSession(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cash register session: %w", err)
	}
	s := mapping.ToDomainCashRegisterSession(m)
	return &s, nil
}

func (q *ledgerQueries) FindOpenSession(ctx context.Context) (*domain.CashRegisterSession, error) {
	return q.findSession(ctx, `SELECT `+sessionColumns+` FROM cash_register_sessions WHERE status = 'OPEN' LIMIT 1`)
}

// LockOpenSession serializes every cash movement and the close behind the
// open session's row lock.
func (q *ledgerQueries) LockOpenSession(ctx context.Context) (*domain.CashRegisterSession, error) {
	return q.findSession(ctx, `SELECT `+sessionColumns+` FROM cash_register_sessions WHERE status = 'OPEN' LIMIT 1 FOR UPDATE`)
}

func (q *ledgerQueries) FindSessionByID(ctx context.Context, sessionID string) (*domain.CashRegisterSession, error) {
	s, err := q.findSession(ctx, `SELECT `+sessionColumns+` FROM cash_register_sessions WHERE session_id = $1`, sessionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("cash register session " + sessionID)
	}
	return s, err
}

func (q *ledgerQueries) ListSessions(ctx context.Context, limit int, nextToken *string) ([]domain.CashRegisterSession, *string, error) {
	limit = pagination.ClampLimit(limit)

	query := `SELECT ` + sessionColumns + ` FROM cash_register_sessions`
	args := []any{}
	if nextToken != nil && *nextToken != "" {
		lastOpenedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: %s", decodeErr.Error())
		}
		query += ` WHERE (opened_at, session_id) < ($1, $2)`
		args = append(args, lastOpenedAt, lastID)
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY opened_at DESC, session_id DESC LIMIT $%d`, len(args))

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list cash register sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.CashRegisterSession
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan cash register session: %w", err)
		}
		sessions = append(sessions, mapping.ToDomainCashRegisterSession(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating cash register sessions: %w", err)
	}

	if len(sessions) <= limit {
		return sessions, nil, nil
	}
	sessions = sessions[:limit]
	last := sessions[len(sessions)-1]
	token := pagination.EncodeToken(last.OpenedAt, last.ID)
	return sessions, &token, nil
}

// InsertSession leans on the partial unique index over open sessions.
func (q *ledgerQueries) InsertSession(ctx context.Context, session domain.CashRegisterSession) error {
	m := mapping.ToModelCashRegisterSession(session)
	query := `
		INSERT INTO cash_register_sessions (session_id, status, opening_balance, cash_total, non_cash_total, opened_at, opened_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.db.Exec(ctx, query, m.SessionID, m.Status, m.OpeningBalance, m.CashTotal, m.NonCashTotal, m.OpenedAt, m.OpenedBy)
	if err != nil {
		if pgErr, ok := isUniqueViolation(err); ok {
			if pgErr.ConstraintName == openSessionIndex {
				return apperrors.ErrSessionAlreadyOpen
			}
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert cash register session: %w", err)
	}
	return nil
}

func (q *ledgerQueries) UpdateSessionTotals(ctx context.Context, sessionID string, cashTotal, nonCashTotal decimal.Decimal) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE cash_register_sessions SET cash_total = $2, non_cash_total = $3 WHERE session_id = $1`,
		sessionID, cashTotal, nonCashTotal)
	if err != nil {
		return fmt.Errorf("failed to update session totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cash register session " + sessionID)
	}
	return nil
}

func (q *ledgerQueries) CloseSession(ctx context.Context, session domain.CashRegisterSession) error {
	m := mapping.ToModelCashRegisterSession(session)
	query := `
		UPDATE cash_register_sessions
		SET status = $2, cash_total = $3, non_cash_total = $4, closed_at = $5, closed_by = $6,
			expected_balance = $7, closing_balance = $8, variance = $9
		WHERE session_id = $1`
	tag, err := q.db.Exec(ctx, query,
		m.SessionID, m.Status, m.CashTotal, m.NonCashTotal, m.ClosedAt, m.ClosedBy,
		m.ExpectedBalance, m.ClosingBalance, m.Variance)
	if err != nil {
		return fmt.Errorf("failed to close cash register session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cash register session " + session.ID)
	}
	return nil
}
