package domain

import "github.com/shopspring/decimal"

// AccountStatus is the lifecycle state of a customer current account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountClosed    AccountStatus = "CLOSED"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountClosed:
		return true
	}
	return false
}

// CustomerAccount is a customer's running balance. A positive balance means
// the customer owes the business. CreditLimit nil means no limit.
type CustomerAccount struct {
	ID              string           `json:"id"`
	CustomerID      string           `json:"customerId"`
	Balance         decimal.Decimal  `json:"balance"`
	CreditLimit     *decimal.Decimal `json:"creditLimit,omitempty"`
	PaymentTermDays int              `json:"paymentTermDays"`
	Status          AccountStatus    `json:"status"`
	AuditFields
}

// CrossesCreditLimit reports whether moving from previous to next goes from
// within the limit to above it.
func (a CustomerAccount) CrossesCreditLimit(previous, next decimal.Decimal) bool {
	if a.CreditLimit == nil {
		return false
	}
	return previous.LessThanOrEqual(*a.CreditLimit) && next.GreaterThan(*a.CreditLimit)
}
