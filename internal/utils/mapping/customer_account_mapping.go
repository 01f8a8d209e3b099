package mapping

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// ToModelCustomerAccount converts a domain CustomerAccount to a model CustomerAccount
func ToModelCustomerAccount(d domain.CustomerAccount) models.CustomerAccount {
	return models.CustomerAccount{
		AccountID:       d.ID,
		CustomerID:      d.CustomerID,
		Balance:         d.Balance,
		CreditLimit:     nullDecimal(d.CreditLimit),
		PaymentTermDays: d.PaymentTermDays,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomerAccount converts a model CustomerAccount to a domain CustomerAccount
func ToDomainCustomerAccount(m models.CustomerAccount) domain.CustomerAccount {
	return domain.CustomerAccount{
		ID:              m.AccountID,
		CustomerID:      m.CustomerID,
		Balance:         m.Balance,
		CreditLimit:     decimalPtr(m.CreditLimit),
		PaymentTermDays: m.PaymentTermDays,
		Status:          domain.AccountStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
