package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRegisterSession is a row of cash_register_sessions.
type CashRegisterSession struct {
	SessionID       string              `db:"session_id"`
	Status          string              `db:"status"`
	OpeningBalance  decimal.Decimal     `db:"opening_balance"`
	CashTotal       decimal.Decimal     `db:"cash_total"`
	NonCashTotal    decimal.Decimal     `db:"non_cash_total"`
	OpenedAt        time.Time           `db:"opened_at"`
	OpenedBy        string              `db:"opened_by"`
	ClosedAt        *time.Time          `db:"closed_at"`
	ClosedBy        *string             `db:"closed_by"`
	ExpectedBalance decimal.NullDecimal `db:"expected_balance"`
	ClosingBalance  decimal.NullDecimal `db:"closing_balance"`
	Variance        decimal.NullDecimal `db:"variance"`
}
