package dto

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentMethodTotalResponse represents one row of the per-payment-method breakdown
type PaymentMethodTotalResponse struct {
	PaymentMethodID *string         `json:"paymentMethodId,omitempty"`
	Tender          domain.Tender   `json:"tender"`
	Total           decimal.Decimal `json:"total"`
	Count           int             `json:"count"`
}

// SessionReportResponse represents the reconciliation report of a cash register session
type SessionReportResponse struct {
	Session         SessionResponse              `json:"session"`
	CashTotal       decimal.Decimal              `json:"cashTotal"`
	NonCashTotal    decimal.Decimal              `json:"nonCashTotal"`
	ByPaymentMethod []PaymentMethodTotalResponse `json:"byPaymentMethod"`
	MovementCount   int                          `json:"movementCount"`
	ExpectedBalance decimal.Decimal              `json:"expectedBalance"`
	CountedBalance  *decimal.Decimal             `json:"countedBalance,omitempty"`
	Variance        *decimal.Decimal             `json:"variance,omitempty"`
}

// ToSessionReportResponse converts a domain.SessionReport
func ToSessionReportResponse(r *domain.SessionReport) SessionReportResponse {
	rows := make([]PaymentMethodTotalResponse, len(r.ByPaymentMethod))
	for i, row := range r.ByPaymentMethod {
		rows[i] = PaymentMethodTotalResponse{
			PaymentMethodID: row.PaymentMethodID,
			Tender:          row.Tender,
			Total:           row.Total,
			Count:           row.Count,
		}
	}
	return SessionReportResponse{
		Session:         ToSessionResponse(&r.Session, false),
		CashTotal:       r.CashTotal,
		NonCashTotal:    r.NonCashTotal,
		ByPaymentMethod: rows,
		MovementCount:   r.MovementCount,
		ExpectedBalance: r.ExpectedBalance,
		CountedBalance:  r.CountedBalance,
		Variance:        r.Variance,
	}
}
