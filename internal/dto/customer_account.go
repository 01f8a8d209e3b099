package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCustomerAccountRequest defines the data needed to open a current account.
type CreateCustomerAccountRequest struct {
	CustomerID      string           `json:"customerId" binding:"required,max=128"`
	CreditLimit     *decimal.Decimal `json:"creditLimit" binding:"omitempty,decimalgte0,moneyscale"` // Optional: nil means no limit
	PaymentTermDays int              `json:"paymentTermDays" binding:"gte=0,lte=365"`
}

// UpdateCustomerAccountStatusRequest changes the account lifecycle state.
type UpdateCustomerAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE SUSPENDED CLOSED"`
}

// CustomerAccountResponse mirrors domain.CustomerAccount.
type CustomerAccountResponse struct {
	AccountID       string               `json:"accountID"`
	CustomerID      string               `json:"customerId"`
	Balance         decimal.Decimal      `json:"balance"`
	CreditLimit     *decimal.Decimal     `json:"creditLimit,omitempty"`
	PaymentTermDays int                  `json:"paymentTermDays"`
	Status          domain.AccountStatus `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// ToCustomerAccountResponse converts a domain.CustomerAccount to its DTO.
func ToCustomerAccountResponse(acc *domain.CustomerAccount) CustomerAccountResponse {
	return CustomerAccountResponse{
		AccountID:       acc.ID,
		CustomerID:      acc.CustomerID,
		Balance:         acc.Balance,
		CreditLimit:     acc.CreditLimit,
		PaymentTermDays: acc.PaymentTermDays,
		Status:          acc.Status,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}
