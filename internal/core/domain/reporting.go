package domain

import "github.com/shopspring/decimal"

// PaymentMethodTotal aggregates a session's cash-ledger movements for one
// payment method and tender.
type PaymentMethodTotal struct {
	PaymentMethodID *string         `json:"paymentMethodId,omitempty"`
	Tender          Tender          `json:"tender"`
	Total           decimal.Decimal `json:"total"`
	Count           int             `json:"count"`
}

// SessionReport is the reconciliation view of one cash register session.
type SessionReport struct {
	Session         CashRegisterSession  `json:"session"`
	CashTotal       decimal.Decimal      `json:"cashTotal"`
	NonCashTotal    decimal.Decimal      `json:"nonCashTotal"`
	ByPaymentMethod []PaymentMethodTotal `json:"byPaymentMethod"`
	MovementCount   int                  `json:"movementCount"`
	ExpectedBalance decimal.Decimal      `json:"expectedBalance"`
	CountedBalance  *decimal.Decimal     `json:"countedBalance,omitempty"`
	Variance        *decimal.Decimal     `json:"variance,omitempty"`
}
