package engine

import (
	"context"
	"testing"

	"lending/core"
	"lending/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alice borrows 15000 USDC against 10 ETH, health factor 16000/15000
func liquidationSuite(t *testing.T) *suite {
	s := newSuite(t, 0)
	s.deposit(bob, usdc, units("20000", 6))
	s.deposit(alice, eth, units("10", 18))

	_, err := s.engine.Borrow(s.ctx, alice, usdc, units("15000", 6))
	require.NoError(t, err)

	s.fund(usdc, carol, units("10000", 6))
	return s
}

func TestLiquidate(t *testing.T) {
	s := liquidationSuite(t)

	_, err := s.engine.Liquidate(s.ctx, carol, usdc, alice, units("5000", 6), eth)
	assert.ErrorIs(t, err, core.ErrNotLiquidatable)

	require.NoError(t, s.feed.Set(eth, "1800"))

	hf, err := s.engine.HealthFactor(s.ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "960000000000000000", hf.Dec())

	_, err = s.engine.Liquidate(s.ctx, alice, usdc, alice, units("5000", 6), eth)
	assert.ErrorIs(t, err, core.ErrSelfLiquidation)

	tx, err := s.engine.Liquidate(s.ctx, carol, usdc, alice, units("5000", 6), eth)
	require.NoError(t, err)
	assert.Equal(t, core.ActionTypeLiquidate, tx.Action)
	assert.Equal(t, units("5000", 6).Dec(), tx.Amount.Dec())
	assert.Contains(t, []string(tx.Participants), alice)

	// 5000 USD * 1.05 / 1800
	seize := "2916666666666666666"
	extra := tx.ExtraData()
	assert.Equal(t, seize, extra[core.TransactionKeySeize])
	assert.Equal(t, "960000000000000000", extra[core.TransactionKeyHealthBefore])
	assert.Equal(t, "1020000000000000000", extra[core.TransactionKeyHealthAfter])

	assert.Equal(t, seize, s.balance(eth, carol).Dec())
	assert.Equal(t, units("5000", 6).Dec(), s.balance(usdc, carol).Dec())

	debt, _ := s.storedPosition(usdc, alice)
	assert.Equal(t, units("10000", 6).Dec(), debt.BorrowAmount.Dec())
	collateral, _ := s.storedPosition(eth, alice)
	assert.Equal(t, "7083333333333333334", collateral.DepositAmount.Dec())
	assert.Equal(t, "7083333333333333334", s.pool(eth).TotalDeposits.Dec())
	assert.Equal(t, units("10000", 6).Dec(), s.pool(usdc).TotalBorrows.Dec())

	_, err = s.engine.Liquidate(s.ctx, carol, usdc, alice, units("1000", 6), eth)
	assert.ErrorIs(t, err, core.ErrNotLiquidatable)
}

func TestLiquidateCloseFactor(t *testing.T) {
	s := liquidationSuite(t)
	require.NoError(t, s.feed.Set(eth, "1800"))
	s.fund(usdc, carol, units("90000", 6))

	tx, err := s.engine.Liquidate(s.ctx, carol, usdc, alice, units("100000", 6), eth)
	require.NoError(t, err)
	assert.Equal(t, units("7500", 6).Dec(), tx.Amount.Dec())
	assert.Equal(t, units("100000", 6).Dec(), tx.ExtraData()[core.TransactionKeyRequested])
	assert.Equal(t, units("4.375", 18).Dec(), s.balance(eth, carol).Dec())
}

func TestLiquidateHealthNotImproved(t *testing.T) {
	s := liquidationSuite(t)

	// below cf * (1 + bonus) a seize hurts the borrower more than the repay helps
	require.NoError(t, s.feed.Set(eth, "1000"))

	_, err := s.engine.Liquidate(s.ctx, carol, usdc, alice, units("5000", 6), eth)
	assert.ErrorIs(t, err, core.ErrHealthFactorNotImproved)
	assert.Equal(t, core.ErrorClassLiquidation, core.ClassOf(err))
	assert.Equal(t, units("10000", 6).Dec(), s.balance(usdc, carol).Dec())
}

func TestLiquidateInsufficientCollateral(t *testing.T) {
	s := liquidationSuite(t)
	require.NoError(t, s.feed.Set(eth, "500"))

	_, err := s.engine.Liquidate(s.ctx, carol, usdc, alice, units("7500", 6), eth)
	assert.ErrorIs(t, err, core.ErrInsufficientCollateral)
}

func TestLiquidatorInsolvent(t *testing.T) {
	s := liquidationSuite(t)

	s.deposit(carol, eth, units("1", 18))
	_, err := s.engine.Borrow(s.ctx, carol, usdc, units("1500", 6))
	require.NoError(t, err)

	require.NoError(t, s.feed.Set(eth, "1800"))

	_, err = s.engine.Liquidate(s.ctx, carol, usdc, alice, units("1000", 6), eth)
	assert.ErrorIs(t, err, core.ErrLiquidatorInsolvent)
}

func TestLiquidateRefundsRepayOnFailedPayout(t *testing.T) {
	s := liquidationSuite(t)
	require.NoError(t, s.feed.Set(eth, "1800"))

	s.transfer.beforeTransfer = func(ctx context.Context, assetID, to string) error {
		if assetID == eth {
			return core.ErrTransferFailed
		}

		return nil
	}

	_, err := s.engine.Liquidate(s.ctx, carol, usdc, alice, units("5000", 6), eth)
	assert.ErrorIs(t, err, core.ErrTransferFailed)

	assert.Equal(t, units("10000", 6).Dec(), s.balance(usdc, carol).Dec())
	assert.True(t, s.balance(eth, carol).IsZero())

	debt, _ := s.storedPosition(usdc, alice)
	assert.Equal(t, units("15000", 6).Dec(), debt.BorrowAmount.Dec())
	collateral, _ := s.storedPosition(eth, alice)
	assert.Equal(t, units("10", 18).Dec(), collateral.DepositAmount.Dec())
}

func TestLiquidateSameAsset(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(bob, eth, units("10", 18))
	s.deposit(alice, eth, units("10", 18))

	// 10 ETH at 2000 gives a limit of 16000 USD
	_, err := s.engine.Borrow(s.ctx, alice, eth, units("7.9", 18))
	require.NoError(t, err)

	// deposit and debt share a price, the health factor does not move with it
	require.NoError(t, s.feed.Set(eth, "1000"))
	hf, err := s.engine.HealthFactor(s.ctx, alice)
	require.NoError(t, err)
	assert.True(t, hf.Gt(number.Scale))

	_, err = s.engine.Liquidate(s.ctx, carol, eth, alice, units("1", 18), "")
	assert.ErrorIs(t, err, core.ErrNotLiquidatable)
}
