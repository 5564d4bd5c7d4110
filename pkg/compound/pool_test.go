package compound

import (
	"testing"

	"lending/core"
	"lending/internal/compound"
	"lending/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const t0 = int64(1_700_000_000)

func newPool(t *testing.T, deposits, borrows string) *core.AssetPool {
	pool := NewAssetPool("usdc", number.Zero(), t0, 0)
	pool.TotalDeposits = number.MustRate(deposits)
	pool.TotalBorrows = number.MustRate(borrows)
	require.NoError(t, RefreshRates(pool))
	return pool
}

func TestNewAssetPool(t *testing.T) {
	pool := NewAssetPool("usdc", number.One(), t0, 10)
	assert.Equal(t, number.One().Dec(), pool.BorrowIndex.Dec())
	assert.Equal(t, number.One().Dec(), pool.DepositIndex.Dec())
	assert.Equal(t, "100000000000000000", pool.ReserveFactor.Dec())
	assert.True(t, pool.TotalDeposits.IsZero())
	assert.Equal(t, uint64(10), pool.LastRewardUnit)
}

func TestAccruePoolInterest(t *testing.T) {
	pool := newPool(t, "1000", "800")
	require.Equal(t, "80000000000000000", pool.BorrowRate.Dec())

	accrual, err := AccruePool(pool, t0+compound.SecondsPerYear, 0)
	require.NoError(t, err)

	assert.Equal(t, number.MustRate("64").Dec(), accrual.Interest.Dec())
	assert.Equal(t, number.MustRate("6.4").Dec(), accrual.Reserve.Dec())
	assert.Equal(t, number.MustRate("864").Dec(), pool.TotalBorrows.Dec())
	assert.Equal(t, number.MustRate("1057.6").Dec(), pool.TotalDeposits.Dec())
	assert.Equal(t, number.MustRate("1.08").Dec(), pool.BorrowIndex.Dec())
	assert.Equal(t, number.MustRate("1.0576").Dec(), pool.DepositIndex.Dec())
	assert.Equal(t, number.MustRate("6.4").Dec(), pool.TotalReserves.Dec())
	assert.Equal(t, t0+compound.SecondsPerYear, pool.LastUpdateTime)
}

func TestAccruePoolIdempotent(t *testing.T) {
	pool := newPool(t, "1000", "500")
	pool.RewardPerUnit = number.One()

	_, err := AccruePool(pool, t0+3600, 5)
	require.NoError(t, err)
	snapshot := pool.Clone()

	accrual, err := AccruePool(pool, t0+3600, 5)
	require.NoError(t, err)
	assert.True(t, accrual.Interest.IsZero())
	assert.True(t, accrual.Emission.IsZero())
	assert.Equal(t, snapshot, pool)
}

func TestAccruePoolBackwardsTime(t *testing.T) {
	pool := newPool(t, "1000", "500")
	snapshot := pool.Clone()

	_, err := AccruePool(pool, t0-100, 0)
	require.NoError(t, err)
	assert.Equal(t, snapshot, pool)
}

func TestAccruePoolFullUtilization(t *testing.T) {
	pool := newPool(t, "100", "100")
	require.Equal(t, number.One().Dec(), pool.BorrowRate.Dec())

	for i := 1; i <= 5; i++ {
		_, err := AccruePool(pool, t0+int64(i)*compound.SecondsPerYear, 0)
		require.NoError(t, err)
		assert.False(t, pool.TotalBorrows.Gt(pool.TotalDeposits), "year %d", i)
	}
}

func TestAccruePoolMonotonicIndices(t *testing.T) {
	pool := newPool(t, "1000", "900")
	borrowIndex, depositIndex := pool.BorrowIndex, pool.DepositIndex

	now := t0
	for _, step := range []int64{0, 1, 13, 86400, 0, 7, compound.SecondsPerYear * 3} {
		now += step
		_, err := AccruePool(pool, now, 0)
		require.NoError(t, err)

		assert.False(t, pool.BorrowIndex.Lt(borrowIndex))
		assert.False(t, pool.DepositIndex.Lt(depositIndex))
		assert.False(t, pool.TotalBorrows.Gt(pool.TotalDeposits))
		borrowIndex, depositIndex = pool.BorrowIndex, pool.DepositIndex
	}
}

func TestAccruePoolReward(t *testing.T) {
	pool := NewAssetPool("eth", number.One(), t0, 0)

	// nothing is emitted while the pool is empty
	accrual, err := AccruePool(pool, t0, 3)
	require.NoError(t, err)
	assert.True(t, accrual.Emission.IsZero())
	assert.Equal(t, uint64(3), pool.LastRewardUnit)

	pool.TotalDeposits = number.One()
	accrual, err = AccruePool(pool, t0, 5)
	require.NoError(t, err)
	assert.Equal(t, number.MustRate("2").Dec(), accrual.Emission.Dec())
	assert.Equal(t, number.MustRate("2").Dec(), pool.AccRewardPerShare.Dec())
}
