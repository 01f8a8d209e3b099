package mapping

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// ToModelCashRegisterSession converts a domain session to a model session
func ToModelCashRegisterSession(d domain.CashRegisterSession) models.CashRegisterSession {
	return models.CashRegisterSession{
		SessionID:       d.ID,
		Status:          string(d.Status),
		OpeningBalance:  d.OpeningBalance,
		CashTotal:       d.CashTotal,
		NonCashTotal:    d.NonCashTotal,
		OpenedAt:        d.OpenedAt,
		OpenedBy:        d.OpenedBy,
		ClosedAt:        d.ClosedAt,
		ClosedBy:        d.ClosedBy,
		ExpectedBalance: nullDecimal(d.ExpectedBalance),
		ClosingBalance:  nullDecimal(d.ClosingBalance),
		Variance:        nullDecimal(d.Variance),
	}
}

// ToDomainCashRegisterSession converts a model session to a domain session
func ToDomainCashRegisterSession(m models.CashRegisterSession) domain.CashRegisterSession {
	return domain.CashRegisterSession{
		ID:              m.SessionID,
		Status:          domain.SessionStatus(m.Status),
		OpeningBalance:  m.OpeningBalance,
		CashTotal:       m.CashTotal,
		NonCashTotal:    m.NonCashTotal,
		OpenedAt:        m.OpenedAt,
		OpenedBy:        m.OpenedBy,
		ClosedAt:        m.ClosedAt,
		ClosedBy:        m.ClosedBy,
		ExpectedBalance: decimalPtr(m.ExpectedBalance),
		ClosingBalance:  decimalPtr(m.ClosingBalance),
		Variance:        decimalPtr(m.Variance),
	}
}
