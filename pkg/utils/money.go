package utils

import "math"

// Round2 rounds to two decimal places. Grand totals are rounded exactly
// once, on the final sum; rounding an already-rounded value is a no-op.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToPaise converts a rupee amount to integer paise. All money comparisons
// and the provider round-trip happen in paise so that binary float drift
// can never decide a reconciliation.
func ToPaise(v float64) int64 {
	return int64(math.Round(v * 100))
}
