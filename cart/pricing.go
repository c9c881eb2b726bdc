package cart

import "github.com/shopspring/decimal"

// Two rounding strategies coexist on purpose and must stay distinct: cart
// totals use fixed-point rounding at two decimals, sales tax rounds at the
// cent by scaling to integer cents first. Existing persisted orders were
// produced by exactly these rules.

// roundFixed rounds to two decimal places, halves away from zero.
func roundFixed(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// roundCent scales to cents, rounds to the nearest whole cent, and scales
// back. Amounts here are never negative, so "nearest" matches half-up.
func roundCent(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Round(0).Shift(-2)
}

// lineAmount is price x quantity for one cart line, unrounded.
func lineAmount(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}
