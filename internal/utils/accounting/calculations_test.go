package accounting

import (
	"errors"
	"math"
	"testing"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedAmount(t *testing.T) {
	ten := decimal.NewFromInt(10)
	tests := []struct {
		name     string
		kind     domain.PostKind
		category domain.MovementCategory
		amount   decimal.Decimal
		want     decimal.Decimal
		wantErr  bool
	}{
		{"sale cash", domain.PostSale, domain.CategoryCash, ten, ten, false},
		{"sale account", domain.PostSale, domain.CategoryAccount, ten, ten, false},
		{"sale stock", domain.PostSale, domain.CategoryStock, ten, ten.Neg(), false},
		{"income cash", domain.PostIncome, domain.CategoryCash, ten, ten, false},
		{"income account", domain.PostIncome, domain.CategoryAccount, ten, ten.Neg(), false},
		{"income stock", domain.PostIncome, domain.CategoryStock, ten, decimal.Zero, true},
		{"expense cash", domain.PostExpense, domain.CategoryCash, ten, ten.Neg(), false},
		{"expense account", domain.PostExpense, domain.CategoryAccount, ten, decimal.Zero, true},
		{"purchase stock", domain.PostPurchase, domain.CategoryStock, ten, ten, false},
		{"return cash", domain.PostReturn, domain.CategoryCash, ten, ten.Neg(), false},
		{"return stock", domain.PostReturn, domain.CategoryStock, ten, ten, false},
		{"adjustment keeps sign", domain.PostAdjustment, domain.CategoryStock, ten.Neg(), ten.Neg(), false},
		{"zero", domain.PostSale, domain.CategoryCash, decimal.Zero, decimal.Zero, true},
		{"negative magnitude", domain.PostSale, domain.CategoryCash, ten.Neg(), decimal.Zero, true},
		{"unknown kind", domain.PostKind("GIFT"), domain.CategoryCash, ten, decimal.Zero, true},
		{"four places", domain.PostSale, domain.CategoryCash, decimal.RequireFromString("1.0005"), decimal.RequireFromString("1.0005"), false},
		{"trailing zero past scale", domain.PostSale, domain.CategoryCash, decimal.RequireFromString("1.50000"), decimal.RequireFromString("1.5"), false},
		{"sub scale cash", domain.PostSale, domain.CategoryCash, decimal.RequireFromString("0.00001"), decimal.Zero, true},
		{"sub scale account", domain.PostIncome, domain.CategoryAccount, decimal.RequireFromString("1.00005"), decimal.Zero, true},
		{"sub scale adjustment", domain.PostAdjustment, domain.CategoryAccount, decimal.RequireFromString("-0.00001"), decimal.Zero, true},
		{"money out of range", domain.PostSale, domain.CategoryCash, decimal.New(1, 15), decimal.Zero, true},
		{"fractional stock", domain.PostPurchase, domain.CategoryStock, decimal.RequireFromString("1.5"), decimal.Zero, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignedAmount(tt.kind, tt.category, tt.amount)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestSignedQuantity(t *testing.T) {
	q, err := SignedQuantity(domain.PostSale, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), q)

	_, err = SignedQuantity(domain.PostExpense, 3)
	assert.Error(t, err)

	q, err = SignedQuantity(domain.PostPurchase, MaxStockQuantity)
	require.NoError(t, err)
	assert.Equal(t, MaxStockQuantity, q)

	for _, quantity := range []int64{MaxStockQuantity + 1, math.MaxInt64, math.MinInt64} {
		_, err = SignedQuantity(domain.PostAdjustment, quantity)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "quantity %d", quantity)
	}
}

func TestCheckMoney(t *testing.T) {
	assert.NoError(t, CheckMoney("opening balance", decimal.RequireFromString("999999999999999.9999")))
	assert.NoError(t, CheckMoney("opening balance", decimal.RequireFromString("10.1200")))
	assert.ErrorIs(t, CheckMoney("opening balance", decimal.RequireFromString("10.00001")), apperrors.ErrValidation)
	assert.ErrorIs(t, CheckMoney("opening balance", decimal.RequireFromString("-1000000000000000")), apperrors.ErrValidation)
	assert.True(t, HasMoneyScale(decimal.RequireFromString("0.0001")))
	assert.False(t, HasMoneyScale(decimal.RequireFromString("0.00015")))
}

func TestIsIntegral(t *testing.T) {
	assert.True(t, IsIntegral(decimal.NewFromInt(4)))
	assert.True(t, IsIntegral(decimal.RequireFromString("-7.000")))
	assert.False(t, IsIntegral(decimal.RequireFromString("1.5")))
}
