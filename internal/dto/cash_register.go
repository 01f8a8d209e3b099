package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest defines the data needed to open the cash register.
type OpenSessionRequest struct {
	OpeningBalance decimal.Decimal `json:"openingBalance" binding:"decimalgte0,moneyscale"`
}

// CloseSessionRequest carries the counted drawer balance.
type CloseSessionRequest struct {
	CountedBalance decimal.Decimal `json:"countedBalance" binding:"decimalgte0,moneyscale"`
}

// SessionResponse mirrors domain.CashRegisterSession plus derived values.
type SessionResponse struct {
	SessionID       string               `json:"sessionID"`
	Status          domain.SessionStatus `json:"status"`
	OpeningBalance  decimal.Decimal      `json:"openingBalance"`
	CashTotal       decimal.Decimal      `json:"cashTotal"`
	NonCashTotal    decimal.Decimal      `json:"nonCashTotal"`
	DrawerBalance   decimal.Decimal      `json:"drawerBalance"`
	OpenedAt        time.Time            `json:"openedAt"`
	OpenedBy        string               `json:"openedBy"`
	ClosedAt        *time.Time           `json:"closedAt,omitempty"`
	ClosedBy        *string              `json:"closedBy,omitempty"`
	ExpectedBalance *decimal.Decimal     `json:"expectedBalance,omitempty"`
	ClosingBalance  *decimal.Decimal     `json:"closingBalance,omitempty"`
	Variance        *decimal.Decimal     `json:"variance,omitempty"`
	Stale           bool                 `json:"stale"`
}

// ListSessionsParams defines query parameters for listing sessions.
type ListSessionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListSessionsResponse is a page of sessions, newest first.
type ListSessionsResponse struct {
	Sessions  []SessionResponse `json:"sessions"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToSessionResponse converts a domain session; stale is computed by the caller.
func ToSessionResponse(s *domain.CashRegisterSession, stale bool) SessionResponse {
	return SessionResponse{
		SessionID:       s.ID,
		Status:          s.Status,
		OpeningBalance:  s.OpeningBalance,
		CashTotal:       s.CashTotal,
		NonCashTotal:    s.NonCashTotal,
		DrawerBalance:   s.DrawerBalance(),
		OpenedAt:        s.OpenedAt,
		OpenedBy:        s.OpenedBy,
		ClosedAt:        s.ClosedAt,
		ClosedBy:        s.ClosedBy,
		ExpectedBalance: s.ExpectedBalance,
		ClosingBalance:  s.ClosingBalance,
		Variance:        s.Variance,
		Stale:           stale,
	}
}
