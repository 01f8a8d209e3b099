package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CustomerAccountReader reads customer current accounts.
type CustomerAccountReader interface {
	FindCustomerAccountByID(ctx context.Context, accountID string) (*domain.CustomerAccount, error)
	FindCustomerAccountByCustomerID(ctx context.Context, customerID string) (*domain.CustomerAccount, error)
}

// CustomerAccountWriter mutates customer accounts inside a transaction.
type CustomerAccountWriter interface {
	LockCustomerAccount(ctx context.Context, accountID string) (*domain.CustomerAccount, error)
	// SaveCustomerAccount returns apperrors.ErrDuplicate when the customer already has an account.
	SaveCustomerAccount(ctx context.Context, account domain.CustomerAccount) error
	UpdateCustomerAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error
	UpdateCustomerAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string, now time.Time) error
}
