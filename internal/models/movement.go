package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is a row of cash_movements, account_movements or stock_movements.
// AccountID holds session_id, account_id or product_id; Amount holds the
// quantity for stock rows. Columns a table lacks are selected as NULL.
type Movement struct {
	MovementID         string          `db:"movement_id"`
	AccountID          string          `db:"account_id"`
	Amount             decimal.Decimal `db:"amount"`
	Tender             *string         `db:"tender"`
	Source             *string         `db:"source"`
	PaymentMethodID    *string         `db:"payment_method_id"`
	ReferenceID        string          `db:"reference_id"`
	ReferenceType      string          `db:"reference_type"`
	Kind               string          `db:"kind"`
	ReversesMovementID *string         `db:"reverses_movement_id"`
	CreatedAt          time.Time       `db:"created_at"`
	CreatedBy          string          `db:"created_by"`
}
