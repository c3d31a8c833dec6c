// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/agriview/fertilizer-optimizer/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance).
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp restricts val to the inclusive range [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// SafeDivide returns num/den, or fallback when den is zero.
func SafeDivide(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return num / den
}

// Percentage calculates what percentage value is of total. A zero total
// yields zero rather than a division fault.
func Percentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}

// Norm2 returns the Euclidean norm of a vector.
func Norm2(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x * x
	}
	return math.Sqrt(sum)
}
