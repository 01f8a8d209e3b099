package dto

import (
	"reflect"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators installs the decimal and reference type rules used by
// the request DTOs. Decimals are validated through their string form.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("decimalnonzero", decimalNonZero); err != nil {
		return err
	}
	if err := v.RegisterValidation("decimalgte0", decimalNonNegative); err != nil {
		return err
	}
	if err := v.RegisterValidation("moneyscale", moneyScale); err != nil {
		return err
	}
	return v.RegisterValidation("reftype", originalReferenceType)
}

func parseDecimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func decimalNonZero(fl validator.FieldLevel) bool {
	d, ok := parseDecimalField(fl)
	return ok && !d.IsZero()
}

func decimalNonNegative(fl validator.FieldLevel) bool {
	d, ok := parseDecimalField(fl)
	return ok && !d.IsNegative()
}

// moneyScale accepts decimals that a money column stores without rounding.
func moneyScale(fl validator.FieldLevel) bool {
	d, ok := parseDecimalField(fl)
	return ok && accounting.CheckMoney(fl.FieldName(), d) == nil
}

// originalReferenceType accepts the closed set of reference types, but not
// their reversal forms: a reversal cannot itself be reversed.
func originalReferenceType(fl validator.FieldLevel) bool {
	ref := domain.ReferenceType(fl.Field().String())
	return ref.IsValid() && !ref.IsReversal()
}
