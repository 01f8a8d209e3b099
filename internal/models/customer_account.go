package models

import "github.com/shopspring/decimal"

// CustomerAccount is a row of customer_accounts.
type CustomerAccount struct {
	AccountID       string              `db:"account_id"`
	CustomerID      string              `db:"customer_id"`
	Balance         decimal.Decimal     `db:"balance"`
	CreditLimit     decimal.NullDecimal `db:"credit_limit"` // NULL means no limit
	PaymentTermDays int                 `db:"payment_term_days"`
	Status          string              `db:"status"`
	AuditFields
}
