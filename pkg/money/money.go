// Package money holds the fixed-point helpers used for prices, discounts and
// gateway amounts. Amounts are major units with two decimal places.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// Scale is the number of decimal places kept on stored amounts.
	Scale = 2
	// MinorUnitExponent converts major units to the gateway's minor units (x100).
	MinorUnitExponent = 2
)

var hundred = decimal.NewFromInt(100)

// Round normalizes an amount to Scale decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// ToMinorUnits converts a major-unit amount to the integer the gateway expects.
// It fails when the amount has sub-minor precision, so the conversion never
// silently truncates.
func ToMinorUnits(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(MinorUnitExponent)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", d.String(), MinorUnitExponent)
	}
	return shifted.IntPart(), nil
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -MinorUnitExponent)
}

// Percent returns amount * pct / 100, rounded to Scale.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(pct).Div(hundred))
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Parse reads a decimal string such as "1500000" or "99.50".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
