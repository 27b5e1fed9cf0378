// Package money holds the decimal helpers used for currency amounts.
// All amounts are shopspring decimals; nothing in the settlement path uses
// floating point.
package money

import "github.com/shopspring/decimal"

// Scale is the number of fractional digits of the settlement currency
const Scale int32 = 2

// Tolerance is the maximum allowed difference between debit and credit totals
var Tolerance = decimal.New(1, -Scale)

// Round rounds an amount half away from zero to the currency scale
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// FitsScale reports whether an amount has no digits beyond the currency scale
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(Round(d))
}

// Sum adds amounts with an explicit accumulation loop
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// WithinTolerance reports whether |a-b| <= Tolerance
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Allocate splits total across weights proportionally, rounded to the currency
// scale. The rounding remainder goes to the last non-zero weight so the parts
// always sum to total exactly.
func Allocate(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	parts := make([]decimal.Decimal, len(weights))
	for i := range parts {
		parts[i] = decimal.Zero
	}
	weightSum := Sum(weights...)
	if weightSum.IsZero() || total.IsZero() {
		return parts
	}
	last := -1
	for i, w := range weights {
		if !w.IsZero() {
			last = i
		}
	}
	allocated := decimal.Zero
	for i, w := range weights {
		if i == last {
			break
		}
		parts[i] = Round(total.Mul(w).Div(weightSum))
		allocated = allocated.Add(parts[i])
	}
	parts[last] = total.Sub(allocated)
	return parts
}
