package calc

import (
	"math"

	"github.com/shopspring/decimal"
)

// Unset is shown in place of a value that cannot be computed yet.
const Unset = "-"

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// Fixed formats x with a fixed number of decimals.
func Fixed(x float64, places int32) string {
	if !finite(x) {
		return Unset
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}

// Money formats an account currency amount.
func Money(x float64) string {
	return Fixed(x, 2)
}

// Percent formats a percentage with two decimals and a % suffix.
func Percent(x float64) string {
	if !finite(x) {
		return Unset
	}
	return Fixed(x, 2) + "%"
}
