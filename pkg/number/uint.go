package number

import (
	"lending/core"

	"github.com/holiman/uint256"
)

var (
	// Scale fixed point unit, 1e18
	Scale = uint256.NewInt(1e18)

	maxU128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	maxU256 = new(uint256.Int).SetAllOne()
)

// Zero returns a fresh zero
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// One returns a fresh 1e18
func One() *uint256.Int {
	return new(uint256.Int).Set(Scale)
}

// Max returns a fresh 2^256-1
func Max() *uint256.Int {
	return new(uint256.Int).Set(maxU256)
}

// MaxU128 returns a fresh 2^128-1
func MaxU128() *uint256.Int {
	return new(uint256.Int).Set(maxU128)
}

// Pow10 returns 10^n
func Pow10(n uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}

// FitsU128 reports whether x fits in 128 bits
func FitsU128(x *uint256.Int) bool {
	return x.BitLen() <= 128
}

// Clone copies x, nil becomes zero
func Clone(x *uint256.Int) *uint256.Int {
	if x == nil {
		return Zero()
	}

	return new(uint256.Int).Set(x)
}

// Add returns x+y or ErrOverflow
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, core.ErrOverflow
	}

	return z, nil
}

// Sub returns x-y or ErrOverflow on underflow
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, core.ErrOverflow
	}

	return z, nil
}

// SubSat returns max(x-y, 0)
func SubSat(x, y *uint256.Int) *uint256.Int {
	if x.Cmp(y) <= 0 {
		return Zero()
	}

	return new(uint256.Int).Sub(x, y)
}

// Mul returns x*y or ErrOverflow
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, core.ErrOverflow
	}

	return z, nil
}

// MulDiv returns floor(x*y/d) computed with a 512 bit intermediate
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, core.ErrDivisionByZero
	}

	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, core.ErrOverflow
	}

	return z, nil
}

// MulDivUp returns ceil(x*y/d)
func MulDivUp(x, y, d *uint256.Int) (*uint256.Int, error) {
	z, err := MulDiv(x, y, d)
	if err != nil {
		return nil, err
	}

	if !new(uint256.Int).MulMod(x, y, d).IsZero() {
		return Add(z, uint256.NewInt(1))
	}

	return z, nil
}

// MulScale returns floor(x*y/1e18)
func MulScale(x, y *uint256.Int) (*uint256.Int, error) {
	return MulDiv(x, y, Scale)
}

// DivScale returns floor(x*1e18/y)
func DivScale(x, y *uint256.Int) (*uint256.Int, error) {
	return MulDiv(x, Scale, y)
}

// Min returns the smaller of x and y
func Min(x, y *uint256.Int) *uint256.Int {
	if x.Cmp(y) <= 0 {
		return x
	}

	return y
}
