package common

import (
	"math"

	"github.com/shopspring/decimal"
)

// DecimalToFixed rounds num half away from zero to precision places.
func DecimalToFixed(num float64, precision int) float64 {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return num
	}
	out, _ := decimal.NewFromFloat(num).Round(int32(precision)).Float64()
	return out
}

// ZeroNaN returns 0 for NaN, and v otherwise.
func ZeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
