package number

import (
	"testing"

	"lending/core"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulDiv(t *testing.T) {
	t.Run("floor", func(t *testing.T) {
		z, err := MulDiv(uint256.NewInt(10), uint256.NewInt(10), uint256.NewInt(3))
		require.NoError(t, err)
		assert.Equal(t, uint64(33), z.Uint64())
	})

	t.Run("ceil", func(t *testing.T) {
		z, err := MulDivUp(uint256.NewInt(10), uint256.NewInt(10), uint256.NewInt(3))
		require.NoError(t, err)
		assert.Equal(t, uint64(34), z.Uint64())

		z, err = MulDivUp(uint256.NewInt(9), uint256.NewInt(10), uint256.NewInt(3))
		require.NoError(t, err)
		assert.Equal(t, uint64(30), z.Uint64())
	})

	t.Run("wide intermediate", func(t *testing.T) {
		// (2^256-1) * 1e18 / 1e18 needs more than 256 bits in the middle
		z, err := MulDiv(Max(), Scale, Scale)
		require.NoError(t, err)
		assert.True(t, z.Eq(Max()))
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := MulDiv(Max(), uint256.NewInt(2), uint256.NewInt(1))
		assert.ErrorIs(t, err, core.ErrOverflow)
	})

	t.Run("zero divisor", func(t *testing.T) {
		_, err := MulDiv(uint256.NewInt(1), uint256.NewInt(1), Zero())
		assert.ErrorIs(t, err, core.ErrDivisionByZero)
	})
}

func TestCheckedArithmetic(t *testing.T) {
	_, err := Add(Max(), uint256.NewInt(1))
	assert.ErrorIs(t, err, core.ErrOverflow)

	_, err = Sub(uint256.NewInt(1), uint256.NewInt(2))
	assert.ErrorIs(t, err, core.ErrOverflow)

	assert.True(t, SubSat(uint256.NewInt(1), uint256.NewInt(2)).IsZero())
	assert.Equal(t, uint64(3), SubSat(uint256.NewInt(5), uint256.NewInt(2)).Uint64())
}

func TestFitsU128(t *testing.T) {
	assert.True(t, FitsU128(MaxU128()))
	assert.False(t, FitsU128(new(uint256.Int).AddUint64(MaxU128(), 1)))
	assert.Equal(t, "1000000", Pow10(6).Dec())
}
