package mapping

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// ToModelMovement converts a domain Movement to a model Movement
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:         d.ID,
		AccountID:          d.AccountID,
		Amount:             d.Amount,
		Tender:             optionalString(string(d.Tender)),
		Source:             optionalString(string(d.Source)),
		PaymentMethodID:    d.PaymentMethodID,
		ReferenceID:        d.ReferenceID,
		ReferenceType:      string(d.ReferenceType),
		Kind:               string(d.Kind),
		ReversesMovementID: d.ReversesMovementID,
		CreatedAt:          d.CreatedAt,
		CreatedBy:          d.CreatedBy,
	}
}

// ToDomainMovement converts a model Movement of the given ledger to a domain Movement
func ToDomainMovement(category domain.MovementCategory, m models.Movement) domain.Movement {
	return domain.Movement{
		ID:                 m.MovementID,
		Category:           category,
		AccountID:          m.AccountID,
		Amount:             m.Amount,
		Tender:             domain.Tender(stringValue(m.Tender)),
		Source:             domain.StockSource(stringValue(m.Source)),
		PaymentMethodID:    m.PaymentMethodID,
		ReferenceID:        m.ReferenceID,
		ReferenceType:      domain.ReferenceType(m.ReferenceType),
		Kind:               domain.MovementKind(m.Kind),
		ReversesMovementID: m.ReversesMovementID,
		CreatedAt:          m.CreatedAt,
		CreatedBy:          m.CreatedBy,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
