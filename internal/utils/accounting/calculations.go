package accounting

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places persisted for monetary amounts.
const MoneyScale int32 = 2

// DefaultEpsilon is the tolerance used when comparing a cached balance with a re-derived one.
var DefaultEpsilon = decimal.NewFromFloat(0.01)

// RoundMoney rounds an amount to MoneyScale places (half away from zero).
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}

// LineTotal computes quantity × unitPrice × (1 + taxRate) without rounding.
// Rounding happens once on the aggregated total so that per-line rounding noise does not accumulate.
func LineTotal(quantity, unitPrice, taxRate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Mul(decimal.NewFromInt(1).Add(taxRate))
}

// Sum adds up the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// WithinEpsilon reports whether |a - b| <= epsilon.
func WithinEpsilon(a, b, epsilon decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(epsilon)
}

// InRange reports whether lower - epsilon <= value <= upper + epsilon.
func InRange(value, lower, upper, epsilon decimal.Decimal) bool {
	return value.GreaterThanOrEqual(lower.Sub(epsilon)) && value.LessThanOrEqual(upper.Add(epsilon))
}

// HasMoneyScale reports whether amount carries no more than MoneyScale decimal places.
func HasMoneyScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(MoneyScale))
}
