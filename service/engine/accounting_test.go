package engine

import (
	"testing"

	"lending/pkg/number"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dave = "dave"

// checkTotals compares the realized positions of users against the pool
// totals as of the current block
func (s *suite) checkTotals(assetID string, users ...string) {
	pool, err := s.engine.Pool(s.ctx, assetID)
	require.NoError(s.t, err)

	deposits, debts := number.Zero(), number.Zero()
	for _, user := range users {
		pos, err := s.engine.Position(s.ctx, assetID, user)
		require.NoError(s.t, err)

		deposits.Add(deposits, pos.DepositAmount)
		debts.Add(debts, pos.BorrowAmount)
	}

	assert.False(s.t, deposits.Gt(pool.TotalDeposits), "deposits %s above total %s", deposits.Dec(), pool.TotalDeposits.Dec())
	assert.False(s.t, debts.Lt(pool.TotalBorrows), "debts %s below total %s", debts.Dec(), pool.TotalBorrows.Dec())
}

func TestAccountingAcrossUsers(t *testing.T) {
	s := newSuite(t, 1)
	users := []string{alice, bob, carol, dave}

	s.deposit(alice, usdc, units("1000", 6))
	s.deposit(dave, usdc, units("250.000001", 6))
	s.deposit(bob, eth, units("1", 18))
	s.deposit(carol, eth, units("1", 18))

	_, err := s.engine.Borrow(s.ctx, bob, usdc, units("333.333333", 6))
	require.NoError(t, err)
	_, err = s.engine.Borrow(s.ctx, carol, usdc, units("222.222221", 6))
	require.NoError(t, err)

	var blocks uint64
	steps := []struct {
		blocks  uint64
		seconds int64
	}{
		{1, 7}, {3, 1013}, {5, 86399}, {1, 3}, {7, 604801}, {2, 17}, {11, 2592001},
	}

	for i, step := range steps {
		s.clock.Advance(step.blocks, step.seconds)
		blocks += step.blocks

		switch i % 3 {
		case 0:
			_, err = s.engine.Accrue(s.ctx, usdc)
		case 1:
			s.fund(usdc, alice, units("1.000001", 6))
			_, err = s.engine.Deposit(s.ctx, alice, usdc, units("1.000001", 6))
		case 2:
			_, err = s.engine.Borrow(s.ctx, carol, usdc, units("1.000003", 6))
		}
		require.NoError(t, err, "step %d", i)

		s.checkTotals(usdc, users...)
		s.checkTotals(eth, users...)
	}

	// borrowers repay exactly what their positions report
	for _, user := range []string{bob, carol} {
		pos, err := s.engine.Position(s.ctx, usdc, user)
		require.NoError(t, err)

		s.fund(usdc, user, units("50", 6))
		_, err = s.engine.Repay(s.ctx, user, usdc, pos.BorrowAmount)
		require.NoError(t, err)
	}

	assert.True(t, s.pool(usdc).TotalBorrows.IsZero(), "borrows left %s", s.pool(usdc).TotalBorrows.Dec())

	// every depositor takes out the whole realized balance
	for _, user := range []string{alice, dave} {
		pos, err := s.engine.Position(s.ctx, usdc, user)
		require.NoError(t, err)

		before := s.balance(usdc, user)
		_, err = s.engine.Withdraw(s.ctx, user, usdc, pos.DepositAmount)
		require.NoError(t, err, "withdraw %s", user)

		received := new(uint256.Int).Sub(s.balance(usdc, user), before)
		assert.Equal(t, pos.DepositAmount.Dec(), received.Dec())
	}

	for _, user := range []string{bob, carol} {
		_, err := s.engine.ClaimReward(s.ctx, user, eth)
		require.NoError(t, err)
	}

	// both pools held deposits for every block, each emitting 1e18 per block;
	// the time weight pays at most twice that
	emitted := new(uint256.Int).Mul(uint256.NewInt(2*blocks), number.Scale)
	minted := number.Zero()
	for _, user := range users {
		minted.Add(minted, s.balance(rewardAsset, user))
	}

	assert.False(t, minted.IsZero())
	assert.False(t, minted.Gt(new(uint256.Int).Mul(emitted, uint256.NewInt(2))), "minted %s emitted %s", minted.Dec(), emitted.Dec())
}
