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
	"github.com/shopspring/decimal"
)

const customerAccountColumns = `account_id, customer_id, balance, credit_limit, payment_term_days, status,
	created_at, created_by, last_updated_at, last_updated_by`

func (q *ledgerQueries) findCustomerAccount(ctx context.Context, what, query string, args ...any) (*domain.CustomerAccount, error) {
	var m models.CustomerAccount
	err := q.db.QueryRow(ctx, query, args...).Scan(
		&m.AccountID,
		&m.CustomerID,
		&m.Balance,
		&m.CreditLimit,
		&m.PaymentTermDays,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(what)
		}
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	acc := mapping.ToDomainCustomerAccount(m)
	return &acc, nil
}

func (q *ledgerQueries) FindCustomerAccountByID(ctx context.Context, accountID string) (*domain.CustomerAccount, error) {
	return q.findCustomerAccount(ctx, "customer account "+accountID,
		`SELECT `+customerAccountColumns+` FROM customer_accounts WHERE account_id = $1`, accountID)
}

func (q *ledgerQueries) FindCustomerAccountByCustomerID(ctx context.Context, customerID string) (*domain.CustomerAccount, error) {
	return q.findCustomerAccount(ctx, "customer account for customer "+customerID,
		`SELECT `+customerAccountColumns+` FROM customer_accounts WHERE customer_id = $1`, customerID)
}

func (q *ledgerQueries) LockCustomerAccount(ctx context.Context, accountID string) (*domain.CustomerAccount, error) {
	return q.findCustomerAccount(ctx, "customer account "+accountID,
		`SELECT `+customerAccountColumns+` FROM customer_accounts WHERE account_id = $1 FOR UPDATE`, accountID)
}

func (q *ledgerQueries) SaveCustomerAccount(ctx context.Context, account domain.CustomerAccount) error {
	m := mapping.ToModelCustomerAccount(account)
	query := `
		INSERT INTO customer_accounts (account_id, customer_id, balance, credit_limit, payment_term_days, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := q.db.Exec(ctx, query,
		m.AccountID, m.CustomerID, m.Balance, m.CreditLimit, m.PaymentTermDays, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert customer account: %w", err)
	}
	return nil
}

func (q *ledgerQueries) UpdateCustomerAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	return q.execOne(ctx, "customer account "+accountID,
		`UPDATE customer_accounts SET balance = $2, last_updated_at = $3, last_updated_by = $4 WHERE account_id = $1`,
		accountID, balance, now, userID)
}

func (q *ledgerQueries) UpdateCustomerAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error {
	return q.execOne(ctx, "customer account "+accountID,
		`UPDATE customer_accounts SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE account_id = $1`,
		accountID, string(status), now, userID)
}

// execOne runs an UPDATE that must touch exactly one row.
func (q *ledgerQueries) execOne(ctx context.Context, what, query string, args ...any) error {
	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(what)
	}
	return nil
}
