package accounting_test

import (
	"testing"

	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  string
		unitPrice string
		taxRate   string
		want      string
	}{
		{name: "no tax", quantity: "3", unitPrice: "100", taxRate: "0", want: "300"},
		{name: "vat 21", quantity: "2", unitPrice: "1000", taxRate: "0.21", want: "2420"},
		{name: "fractional quantity", quantity: "1.5", unitPrice: "10.10", taxRate: "0.105", want: "16.74075"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.LineTotal(
				decimal.RequireFromString(tt.quantity),
				decimal.RequireFromString(tt.unitPrice),
				decimal.RequireFromString(tt.taxRate),
			)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "16.74", accounting.RoundMoney(decimal.RequireFromString("16.74075")).String())
	assert.Equal(t, "0.01", accounting.RoundMoney(decimal.RequireFromString("0.005")).String())
}

func TestWithinEpsilonAndInRange(t *testing.T) {
	eps := accounting.DefaultEpsilon
	assert.True(t, accounting.WithinEpsilon(decimal.RequireFromString("100.00"), decimal.RequireFromString("100.01"), eps))
	assert.False(t, accounting.WithinEpsilon(decimal.RequireFromString("100.00"), decimal.RequireFromString("100.02"), eps))

	assert.True(t, accounting.InRange(decimal.Zero, decimal.Zero, decimal.NewFromInt(10), eps))
	assert.False(t, accounting.InRange(decimal.NewFromInt(-1), decimal.Zero, decimal.NewFromInt(10), eps))
	assert.False(t, accounting.InRange(decimal.NewFromInt(11), decimal.Zero, decimal.NewFromInt(10), eps))
}

func TestSum(t *testing.T) {
	got := accounting.Sum(decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.RequireFromString("0.5"))
	assert.True(t, decimal.RequireFromString("3.5").Equal(got))
	assert.True(t, accounting.Sum().IsZero())
}

func TestHasMoneyScale(t *testing.T) {
	assert.True(t, accounting.HasMoneyScale(decimal.RequireFromString("10.50")))
	assert.True(t, accounting.HasMoneyScale(decimal.RequireFromString("10.500")))
	assert.False(t, accounting.HasMoneyScale(decimal.RequireFromString("10.505")))
}
