package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// CustomerAccountSvcFacade administers customer current accounts. Balances
// are only changed by the ledger.
type CustomerAccountSvcFacade interface {
	CreateCustomerAccount(ctx context.Context, req dto.CreateCustomerAccountRequest, userID string) (*domain.CustomerAccount, error)
	GetCustomerAccount(ctx context.Context, accountID string) (*domain.CustomerAccount, error)
	GetCustomerAccountByCustomer(ctx context.Context, customerID string) (*domain.CustomerAccount, error)
	UpdateCustomerAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, userID string) (*domain.CustomerAccount, error)
}
