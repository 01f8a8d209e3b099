package mapping

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// ToModelStockLine converts a domain StockLine to a model StockLine
func ToModelStockLine(d domain.StockLine) models.StockLine {
	return models.StockLine{
		ProductID:      d.ProductID,
		Stock:          d.Stock,
		AllowBackorder: d.AllowBackorder,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockLine converts a model StockLine to a domain StockLine
func ToDomainStockLine(m models.StockLine) domain.StockLine {
	return domain.StockLine{
		ProductID:      m.ProductID,
		Stock:          m.Stock,
		AllowBackorder: m.AllowBackorder,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
