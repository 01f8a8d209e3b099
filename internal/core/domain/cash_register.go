package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a cash register session.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// DefaultStaleAfter is one business day.
const DefaultStaleAfter = 24 * time.Hour

// CashRegisterSession is a bounded period during which cash movements are
// attributable to one drawer. CashTotal and NonCashTotal are running sums
// maintained by the balance projector.
type CashRegisterSession struct {
	ID              string           `json:"id"`
	Status          SessionStatus    `json:"status"`
	OpeningBalance  decimal.Decimal  `json:"openingBalance"`
	CashTotal       decimal.Decimal  `json:"cashTotal"`
	NonCashTotal    decimal.Decimal  `json:"nonCashTotal"`
	OpenedAt        time.Time        `json:"openedAt"`
	OpenedBy        string           `json:"openedBy"`
	ClosedAt        *time.Time       `json:"closedAt,omitempty"`
	ClosedBy        *string          `json:"closedBy,omitempty"`
	ExpectedBalance *decimal.Decimal `json:"expectedBalance,omitempty"`
	ClosingBalance  *decimal.Decimal `json:"closingBalance,omitempty"`
	Variance        *decimal.Decimal `json:"variance,omitempty"`
}

// DrawerBalance is the cash that should physically be in the drawer.
func (s CashRegisterSession) DrawerBalance() decimal.Decimal {
	return s.OpeningBalance.Add(s.CashTotal)
}

// IsOpen reports whether the session still accepts movements.
func (s CashRegisterSession) IsOpen() bool {
	return s.Status == SessionOpen
}

// IsStale reports whether an open session has outlived staleAfter.
func (s CashRegisterSession) IsStale(now time.Time, staleAfter time.Duration) bool {
	if !s.IsOpen() {
		return false
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return now.Sub(s.OpenedAt) > staleAfter
}
