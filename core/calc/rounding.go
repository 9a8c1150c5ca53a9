// Package calc - Range Calculator
// Computes the full cost breakdown for each batch range from a resolved
// parameter bundle. Internal accumulation keeps full float64 precision;
// rounding happens once, at the output boundary.
package calc

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// Rounding an already-rounded value is a no-op.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// safeDiv returns numerator/denominator, or 0 when the denominator is 0.
// The guarded case is flagged to the caller, never raised as an error.
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
