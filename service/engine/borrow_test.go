package engine

import (
	"testing"

	"lending/core"
	"lending/internal/compound"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowLimit(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(alice, usdc, units("1000", 6))

	// 1000 * 0.8 * 0.9
	limit, err := s.engine.GetUserBorrowLimit(s.ctx, alice, usdc)
	require.NoError(t, err)
	assert.Equal(t, usd("720").Dec(), limit.Total.Dec())
	assert.Equal(t, usd("720").Dec(), limit.Asset.Dec())

	over := new(uint256.Int).AddUint64(units("720", 6), 1)
	_, err = s.engine.Borrow(s.ctx, alice, usdc, over)
	assert.ErrorIs(t, err, core.ErrExceedsMaxBorrowFactor)

	tx, err := s.engine.Borrow(s.ctx, alice, usdc, units("720", 6))
	require.NoError(t, err)
	assert.Equal(t, core.ActionTypeBorrow, tx.Action)

	pos, _ := s.storedPosition(usdc, alice)
	assert.Equal(t, units("720", 6).Dec(), pos.BorrowAmount.Dec())
	assert.Equal(t, units("720", 6).Dec(), s.pool(usdc).TotalBorrows.Dec())
	assert.Equal(t, units("720", 6).Dec(), s.balance(usdc, alice).Dec())

	_, err = s.engine.Borrow(s.ctx, alice, usdc, uint256.NewInt(1))
	assert.ErrorIs(t, err, core.ErrExceedsMaxBorrowFactor)
}

func TestBorrowLiquidity(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(alice, usdc, units("100", 6))
	s.deposit(bob, eth, units("1", 18))

	_, err := s.engine.Borrow(s.ctx, bob, usdc, units("101", 6))
	assert.ErrorIs(t, err, core.ErrInsufficientLiquidity)

	_, err = s.engine.Borrow(s.ctx, bob, usdc, units("100", 6))
	require.NoError(t, err)

	pool := s.pool(usdc)
	assert.Equal(t, compound.ExcessRate.Dec(), pool.BorrowRate.Dec())
}

func TestBorrowRequiresPrice(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(alice, usdc, units("100", 6))
	s.addAsset("dai", 18, "0.8", "0.9", "0.05")
	s.deposit(bob, "dai", units("100", 18))

	_, err := s.engine.Borrow(s.ctx, alice, "dai", units("1", 18))
	assert.ErrorIs(t, err, core.ErrPriceUnavailable)
	assert.Equal(t, core.ErrorClassDependency, core.ClassOf(err))
}

func TestRepay(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(alice, usdc, units("1000", 6))
	s.deposit(bob, eth, units("1", 18))

	_, err := s.engine.Repay(s.ctx, bob, usdc, units("1", 6))
	assert.ErrorIs(t, err, core.ErrNoDebt)

	_, err = s.engine.Borrow(s.ctx, bob, usdc, units("300", 6))
	require.NoError(t, err)

	_, err = s.engine.Repay(s.ctx, bob, usdc, units("100", 6))
	require.NoError(t, err)

	pos, _ := s.storedPosition(usdc, bob)
	assert.Equal(t, units("200", 6).Dec(), pos.BorrowAmount.Dec())

	// only the debt is taken
	s.fund(usdc, bob, units("500", 6))
	tx, err := s.engine.Repay(s.ctx, bob, usdc, units("1000", 6))
	require.NoError(t, err)
	assert.Equal(t, units("200", 6).Dec(), tx.Amount.Dec())
	assert.Equal(t, units("1000", 6).Dec(), tx.ExtraData()[core.TransactionKeyRequested])

	pos, _ = s.storedPosition(usdc, bob)
	assert.True(t, pos.BorrowAmount.IsZero())
	assert.True(t, s.pool(usdc).TotalBorrows.IsZero())
	assert.Equal(t, units("500", 6).Dec(), s.balance(usdc, bob).Dec())
}

func TestInterestRoundTrip(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(alice, usdc, units("1000", 6))
	s.deposit(bob, eth, units("1", 18))

	_, err := s.engine.Borrow(s.ctx, bob, usdc, units("500", 6))
	require.NoError(t, err)

	// 50% utilization, 5.75% a year
	assert.Equal(t, "57500000000000000", s.pool(usdc).BorrowRate.Dec())

	s.clock.Advance(1, compound.SecondsPerYear)

	pool, err := s.engine.Accrue(s.ctx, usdc)
	require.NoError(t, err)
	assert.Equal(t, units("528.75", 6).Dec(), pool.TotalBorrows.Dec())
	assert.Equal(t, units("1025.875", 6).Dec(), pool.TotalDeposits.Dec())
	assert.Equal(t, units("2.875", 6).Dec(), pool.TotalReserves.Dec())
	assert.Equal(t, "1057500000000000000", pool.BorrowIndex.Dec())
	assert.Equal(t, "1025875000000000000", pool.DepositIndex.Dec())

	cfg, _, err := s.assets.Find(s.ctx, usdc)
	require.NoError(t, err)
	assert.Equal(t, units("2.875", 6).Dec(), cfg.Reserves.Dec())

	// accrual is idempotent within a block
	again, err := s.engine.Accrue(s.ctx, usdc)
	require.NoError(t, err)
	assert.Equal(t, pool.TotalBorrows.Dec(), again.TotalBorrows.Dec())
	assert.Equal(t, pool.BorrowIndex.Dec(), again.BorrowIndex.Dec())

	debt, err := s.engine.Position(s.ctx, usdc, bob)
	require.NoError(t, err)
	assert.Equal(t, units("528.75", 6).Dec(), debt.BorrowAmount.Dec())

	s.fund(usdc, bob, units("28.75", 6))
	_, err = s.engine.Repay(s.ctx, bob, usdc, units("528.75", 6))
	require.NoError(t, err)

	_, err = s.engine.Withdraw(s.ctx, alice, usdc, units("1025.875", 6))
	require.NoError(t, err)

	assert.Equal(t, units("1025.875", 6).Dec(), s.balance(usdc, alice).Dec())
	assert.Equal(t, units("2.875", 6).Dec(), s.balance(usdc, poolAccount).Dec())

	pool = s.pool(usdc)
	assert.True(t, pool.TotalDeposits.IsZero())
	assert.True(t, pool.TotalBorrows.IsZero())
}

func TestSolvencyAfterFullUtilization(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(alice, usdc, units("100", 6))
	s.deposit(bob, eth, units("10", 18))

	_, err := s.engine.Borrow(s.ctx, bob, usdc, units("100", 6))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		s.clock.Advance(1, compound.SecondsPerYear/4)
		pool, err := s.engine.Accrue(s.ctx, usdc)
		require.NoError(t, err)
		assert.True(t, pool.TotalBorrows.Cmp(pool.TotalDeposits) <= 0)
	}

	alicePos, err := s.engine.Position(s.ctx, usdc, alice)
	require.NoError(t, err)
	assert.True(t, alicePos.DepositAmount.Cmp(s.pool(usdc).TotalDeposits) <= 0)
}
