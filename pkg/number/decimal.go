package number

import (
	"lending/core"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// FromDecimal converts a human amount into integer base units with the given decimals.
// Fractions below one base unit are rejected rather than rounded.
func FromDecimal(d decimal.Decimal, decimals int32) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, core.ErrInvalidAmount
	}

	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, core.ErrInvalidAmount
	}

	v, overflow := uint256.FromBig(shifted.BigInt())
	if overflow {
		return nil, core.ErrOverflow
	}

	return v, nil
}

// ToDecimal converts base units to a human amount
func ToDecimal(v *uint256.Int, decimals int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(v.ToBig(), -decimals)
}

// Rate parses a fraction like "0.75" into a 1e18 scaled integer
func Rate(v string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}

	return FromDecimal(d, 18)
}

// MustRate panics when v is not a valid fraction
func MustRate(v string) *uint256.Int {
	r, err := Rate(v)
	if err != nil {
		panic(err)
	}

	return r
}

// ParseAmount parses either an integer base unit string ("1500000") or a decimal
// human amount ("1.5") with the given decimals.
func ParseAmount(v string, decimals int32) (*uint256.Int, error) {
	if v == "" {
		return nil, core.ErrInvalidAmount
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, core.ErrInvalidAmount
	}

	if d.Exponent() >= 0 {
		return FromDecimal(d, 0)
	}

	return FromDecimal(d, decimals)
}
