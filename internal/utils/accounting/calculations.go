package accounting

import (
	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places money columns keep.
const MoneyScale = 4

// MaxStockQuantity bounds a single stock leg, keeping running stock levels
// well inside int64.
const MaxStockQuantity int64 = 1_000_000_000_000

// maxMoney is the first magnitude a NUMERIC(19,4) column cannot hold.
var maxMoney = decimal.New(1, 15)

// legSigns holds the sign each ledger takes for a kind; 0 means the kind may
// not carry a leg on that ledger.
type legSigns struct {
	cash    int
	account int
	stock   int
}

// A sale puts cash in the drawer, raises what the customer owes and takes
// goods off the shelf. An income is a customer paying off their account. A
// return undoes a sale.
var signsByKind = map[domain.PostKind]legSigns{
	domain.PostSale:     {cash: 1, account: 1, stock: -1},
	domain.PostIncome:   {cash: 1, account: -1},
	domain.PostExpense:  {cash: -1},
	domain.PostPurchase: {cash: -1, stock: 1},
	domain.PostReturn:   {cash: -1, account: -1, stock: 1},
}

func (s legSigns) forCategory(c domain.MovementCategory) int {
	switch c {
	case domain.CategoryCash:
		return s.cash
	case domain.CategoryAccount:
		return s.account
	case domain.CategoryStock:
		return s.stock
	}
	return 0
}

// SignedAmount applies the ledger sign convention of kind to a leg amount.
// Adjustments carry their own sign and are returned unchanged; every other
// kind takes a positive magnitude.
func SignedAmount(kind domain.PostKind, category domain.MovementCategory, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, apperrors.NewValidationError("%s amount must not be zero", category)
	}
	if err := checkMagnitude(category, amount); err != nil {
		return decimal.Zero, err
	}
	if kind == domain.PostAdjustment {
		return amount, nil
	}

	signs, ok := signsByKind[kind]
	if !ok {
		return decimal.Zero, apperrors.NewValidationError("unknown post kind '%s'", kind)
	}
	sign := signs.forCategory(category)
	if sign == 0 {
		return decimal.Zero, apperrors.NewValidationError("%s does not accept a %s leg", kind, category)
	}
	if amount.IsNegative() {
		return decimal.Zero, apperrors.NewValidationError("%s amount for %s must be positive", category, kind)
	}
	if sign < 0 {
		return amount.Neg(), nil
	}
	return amount, nil
}

// SignedQuantity is SignedAmount for integral stock quantities.
func SignedQuantity(kind domain.PostKind, quantity int64) (int64, error) {
	signed, err := SignedAmount(kind, domain.CategoryStock, decimal.NewFromInt(quantity))
	if err != nil {
		return 0, err
	}
	return signed.IntPart(), nil
}

func checkMagnitude(category domain.MovementCategory, amount decimal.Decimal) error {
	if category == domain.CategoryStock {
		if !IsIntegral(amount) {
			return apperrors.NewValidationError("stock quantity must be a whole number, got %s", amount)
		}
		if amount.Abs().GreaterThan(decimal.NewFromInt(MaxStockQuantity)) {
			return apperrors.NewValidationError("stock quantity %s exceeds %d", amount, MaxStockQuantity)
		}
		return nil
	}
	return CheckMoney(string(category)+" amount", amount)
}

// HasMoneyScale reports whether d survives storage at MoneyScale places
// without rounding.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// CheckMoney rejects a money value the ledger could not store exactly.
func CheckMoney(field string, d decimal.Decimal) error {
	if !HasMoneyScale(d) {
		return apperrors.NewValidationError("%s %s has more than %d decimal places", field, d, MoneyScale)
	}
	if d.Abs().GreaterThanOrEqual(maxMoney) {
		return apperrors.NewValidationError("%s %s is out of range", field, d)
	}
	return nil
}

// IsIntegral reports whether d has no fractional part.
func IsIntegral(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}
