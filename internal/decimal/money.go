package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// DefaultTolerance is the absolute difference two amounts may have and still compare equal (2 cents)
var DefaultTolerance = decimal.New(2, -2)

// Quantize rounds to 2 places (cents)
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Div divides a by b, rounds to 4 places
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	return a.DivRound(b, 4)
}

// ApproxEqual reports |a - b| <= tolerance
func ApproxEqual(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// SumNull sums the valid entries, treating absent values as zero
func SumNull(values []decimal.NullDecimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		if v.Valid {
			result = result.Add(v.Decimal)
		}
	}
	return result
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
