package domain

// StockLine is the on-hand quantity of one product.
type StockLine struct {
	ProductID      string `json:"productId"`
	Stock          int64  `json:"stock"`
	AllowBackorder bool   `json:"allowBackorder"`
	AuditFields
}

// CanApply reports whether delta may be applied under the backorder policy.
// Increases are always accepted, even while the line is still negative.
func (l StockLine) CanApply(delta int64) bool {
	return l.AllowBackorder || delta >= 0 || l.Stock+delta >= 0
}
