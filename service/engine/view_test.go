package engine

import (
	"testing"

	"lending/core"
	"lending/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountViews(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(alice, eth, units("1", 18))
	s.deposit(bob, usdc, units("5000", 6))

	_, err := s.engine.Borrow(s.ctx, alice, usdc, units("1000", 6))
	require.NoError(t, err)

	account, err := s.engine.Account(s.ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, account.UserID)
	assert.Len(t, account.Positions, 2)
	assert.Equal(t, usd("2000").Dec(), account.Values.DepositValue.Dec())
	assert.Equal(t, usd("1000").Dec(), account.Values.BorrowValue.Dec())
	assert.Equal(t, usd("1600").Dec(), account.Values.CollateralValue.Dec())
	assert.Equal(t, usd("1600").Dec(), account.Values.BorrowLimit.Dec())
	assert.Equal(t, usd("1.6").Dec(), account.Values.HealthFactor.Dec())

	collateral, err := s.engine.GetCollateralValue(s.ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, usd("1600").Dec(), collateral.Dec())

	deposit, borrow, err := s.engine.GetUserTotalValueInUSD(s.ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, usd("2000").Dec(), deposit.Dec())
	assert.Equal(t, usd("1000").Dec(), borrow.Dec())

	deposit, borrow, err = s.engine.GetTotalValues(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, usd("7000").Dec(), deposit.Dec())
	assert.Equal(t, usd("1000").Dec(), borrow.Dec())

	limit, err := s.engine.GetUserBorrowLimit(s.ctx, alice, usdc)
	require.NoError(t, err)
	assert.True(t, limit.Asset.IsZero())
	assert.Equal(t, usd("1600").Dec(), limit.Total.Dec())

	hf, err := s.engine.HealthFactor(s.ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, number.Max().Dec(), hf.Dec())

	price, err := s.engine.GetAssetPrice(s.ctx, eth)
	require.NoError(t, err)
	assert.Equal(t, usd("2000").Dec(), price.Dec())

	_, err = s.engine.GetAssetPrice(s.ctx, "doge")
	assert.ErrorIs(t, err, core.ErrAssetNotSupported)
}

func TestViewsDoNotWrite(t *testing.T) {
	s := newSuite(t, 1)
	s.deposit(alice, usdc, units("1000", 6))
	s.deposit(bob, eth, units("1", 18))
	_, err := s.engine.Borrow(s.ctx, bob, usdc, units("500", 6))
	require.NoError(t, err)

	stored := s.pool(usdc)
	s.clock.Advance(100, 86400)

	pool, err := s.engine.Pool(s.ctx, usdc)
	require.NoError(t, err)
	assert.True(t, pool.TotalBorrows.Gt(stored.TotalBorrows))
	assert.True(t, pool.AccRewardPerShare.Gt(stored.AccRewardPerShare))

	pos, err := s.engine.Position(s.ctx, usdc, alice)
	require.NoError(t, err)
	assert.True(t, pos.DepositAmount.Gt(units("1000", 6)))

	_, err = s.engine.PendingReward(s.ctx, usdc, alice)
	require.NoError(t, err)
	_, err = s.engine.Account(s.ctx, bob)
	require.NoError(t, err)

	after := s.pool(usdc)
	assert.Equal(t, stored.Version, after.Version)
	assert.Equal(t, stored.TotalBorrows.Dec(), after.TotalBorrows.Dec())

	stale, _ := s.storedPosition(usdc, alice)
	assert.Equal(t, units("1000", 6).Dec(), stale.DepositAmount.Dec())
}

func TestPositionOfNewUser(t *testing.T) {
	s := newSuite(t, 0)

	pos, err := s.engine.Position(s.ctx, usdc, "nobody")
	require.NoError(t, err)
	assert.True(t, pos.IsEmpty())
	assert.Zero(t, pos.Version)

	_, err = s.engine.Position(s.ctx, "doge", "nobody")
	assert.ErrorIs(t, err, core.ErrAssetNotSupported)

	pools, err := s.engine.Pools(s.ctx)
	require.NoError(t, err)
	assert.Len(t, pools, 2)
}
