package models

// StockLine is a row of product_stock.
type StockLine struct {
	ProductID      string `db:"product_id"`
	Stock          int64  `db:"stock"`
	AllowBackorder bool   `db:"allow_backorder"`
	AuditFields
}
