package models

import "github.com/shopspring/decimal"

// Quantize rounds a monetary value to the canonical 2-decimal
// representation. Rounding mode is round-half-up (half away from
// zero); callers must quantize before comparing or storing amounts.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Zero is the canonical 0.00 monetary value.
func Zero() decimal.Decimal {
	return decimal.New(0, -2)
}
