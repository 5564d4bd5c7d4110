package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"lending/core"
	"lending/pkg/number"
	"lending/service/account"
	"lending/service/block"
	"lending/service/oracle"
	"lending/service/registry"
	"lending/service/token"
	"lending/store/memory"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin = "admin"
	alice = "alice"
	bob   = "bob"
	carol = "carol"

	usdc = "usdc"
	eth  = "eth"

	poolAccount = "pool"
	rewardAsset = "REWARD"

	genesis = int64(1_600_000_000)
)

// hookedTransfer runs hooks before delegating to the ledger
type hookedTransfer struct {
	core.IAssetTransfer
	beforeTransferFrom func(ctx context.Context, assetID, from string) error
	beforeTransfer     func(ctx context.Context, assetID, to string) error
}

func (h *hookedTransfer) TransferFrom(ctx context.Context, assetID, from, to string, amount *uint256.Int) error {
	if h.beforeTransferFrom != nil {
		if err := h.beforeTransferFrom(ctx, assetID, from); err != nil {
			return err
		}
	}

	return h.IAssetTransfer.TransferFrom(ctx, assetID, from, to, amount)
}

func (h *hookedTransfer) Transfer(ctx context.Context, assetID, to string, amount *uint256.Int) error {
	if h.beforeTransfer != nil {
		if err := h.beforeTransfer(ctx, assetID, to); err != nil {
			return err
		}
	}

	return h.IAssetTransfer.Transfer(ctx, assetID, to, amount)
}

type suite struct {
	t        *testing.T
	ctx      context.Context
	engine   *Engine
	store    *memory.Store
	assets   core.IAssetStore
	ledger   *token.Ledger
	transfer *hookedTransfer
	feed     *oracle.StaticFeed
	clock    *block.Manual
}

func newSuite(t *testing.T, rewardPerUnit uint64) *suite {
	feed, err := oracle.NewStaticFeed(map[string]string{
		usdc: "1",
		eth:  "2000",
	})
	require.NoError(t, err)

	assets := memory.NewAssetStore()
	ledger := token.New(memory.NewBalanceStore(), poolAccount, rewardAsset)
	transfer := &hookedTransfer{IAssetTransfer: ledger}
	store := memory.New()
	clock := block.NewManual(1, genesis)

	e := New(
		store,
		registry.New(assets),
		oracle.New(feed, 0),
		account.New(),
		transfer,
		ledger,
		clock,
		memory.NewPauseStore(),
		&core.Config{Admins: []string{admin}},
		Config{
			RewardUnit:    core.RewardUnitBlock,
			RewardPerUnit: new(uint256.Int).Mul(uint256.NewInt(rewardPerUnit), number.Scale),
			CloseFactor:   number.MustRate("0.5"),
			PoolAccount:   poolAccount,
		},
	)

	s := &suite{
		t:        t,
		ctx:      context.Background(),
		engine:   e,
		store:    store,
		assets:   assets,
		ledger:   ledger,
		transfer: transfer,
		feed:     feed,
		clock:    clock,
	}

	s.addAsset(usdc, 6, "0.8", "0.9", "0.05")
	s.addAsset(eth, 18, "0.8", "1", "0.05")
	return s
}

func (s *suite) addAsset(assetID string, decimals uint8, cf, bf, bonus string) {
	_, err := s.engine.AddAsset(s.ctx, admin, &core.AssetConfig{
		AssetID:          assetID,
		Symbol:           assetID,
		Decimals:         decimals,
		IsSupported:      true,
		CollateralFactor: number.MustRate(cf),
		BorrowFactor:     number.MustRate(bf),
		LiquidationBonus: number.MustRate(bonus),
	})
	require.NoError(s.t, err)
}

// units converts a human amount to base units
func units(v string, decimals int32) *uint256.Int {
	u, err := number.FromDecimal(decimal.RequireFromString(v), decimals)
	if err != nil {
		panic(err)
	}

	return u
}

func usd(v string) *uint256.Int {
	return units(v, 18)
}

func (s *suite) fund(assetID, user string, amount *uint256.Int) {
	require.NoError(s.t, s.ledger.Faucet(s.ctx, assetID, user, amount))
}

func (s *suite) balance(assetID, user string) *uint256.Int {
	b, err := s.ledger.Balance(s.ctx, assetID, user)
	require.NoError(s.t, err)
	return b
}

func (s *suite) deposit(user, assetID string, amount *uint256.Int) {
	s.fund(assetID, user, amount)
	_, err := s.engine.Deposit(s.ctx, user, assetID, amount)
	require.NoError(s.t, err)
}

func (s *suite) pool(assetID string) *core.AssetPool {
	pool, isRecordNotFound, err := s.store.Pools().Find(s.ctx, assetID)
	require.NoError(s.t, err)
	require.False(s.t, isRecordNotFound)
	return pool
}

func (s *suite) storedPosition(assetID, user string) (*core.UserPosition, bool) {
	pos, isRecordNotFound, err := s.store.Positions().Find(s.ctx, assetID, user)
	require.NoError(s.t, err)
	return pos, !isRecordNotFound
}

func (s *suite) transactions() []*core.Transaction {
	txs, err := s.store.Transactions().List(s.ctx, 0, 0)
	require.NoError(s.t, err)
	return txs
}

func TestEnterGuard(t *testing.T) {
	s := newSuite(t, 0)

	callCtx, release, err := s.engine.enter(s.ctx)
	require.NoError(t, err)

	_, _, err = s.engine.enter(callCtx)
	assert.ErrorIs(t, err, core.ErrReentrantCall)

	_, err = s.engine.Deposit(callCtx, alice, usdc, units("1", 6))
	assert.ErrorIs(t, err, core.ErrReentrantCall)

	_, err = s.engine.Accrue(callCtx, usdc)
	assert.ErrorIs(t, err, core.ErrReentrantCall)

	// another caller waits for the slot until its context ends
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()
	_, err = s.engine.Deposit(ctx, alice, usdc, units("1", 6))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()

	_, release, err = s.engine.enter(s.ctx)
	require.NoError(t, err)
	release()
}

func TestConcurrentCallersQueue(t *testing.T) {
	s := newSuite(t, 0)

	const n = 200
	s.fund(usdc, alice, units("200", 6))

	ctx, cancel := context.WithCancel(s.ctx)
	var accrued int32
	done := make(chan error, 1)
	go func() {
		for ctx.Err() == nil {
			if _, err := s.engine.Accrue(ctx, usdc); err != nil && ctx.Err() == nil {
				done <- err
				return
			}
			atomic.AddInt32(&accrued, 1)
		}
		done <- nil
	}()

	for i := 0; i < n; i++ {
		_, err := s.engine.Deposit(s.ctx, alice, usdc, units("1", 6))
		require.NoError(t, err, "deposit %d", i)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&accrued) > 0 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, units("200", 6).Dec(), s.pool(usdc).TotalDeposits.Dec())
}

func TestGuardReleasedOnFailure(t *testing.T) {
	s := newSuite(t, 0)

	_, err := s.engine.Withdraw(s.ctx, alice, usdc, units("1", 6))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)

	s.deposit(alice, usdc, units("1", 6))
}

func TestReentrantTransfer(t *testing.T) {
	s := newSuite(t, 0)

	var inner error
	var seen *core.AssetPool
	s.transfer.beforeTransferFrom = func(ctx context.Context, assetID, from string) error {
		_, inner = s.engine.Deposit(ctx, from, assetID, units("1", 6))

		// reads are served while the outer call is in flight
		pool, err := s.engine.Pool(ctx, assetID)
		require.NoError(t, err)
		seen = pool
		return nil
	}

	s.deposit(alice, usdc, units("100", 6))
	assert.ErrorIs(t, inner, core.ErrReentrantCall)
	assert.Equal(t, units("100", 6).Dec(), seen.TotalDeposits.Dec())

	pos, ok := s.storedPosition(usdc, alice)
	require.True(t, ok)
	assert.Equal(t, units("100", 6).Dec(), pos.DepositAmount.Dec())
	assert.Equal(t, units("100", 6).Dec(), s.pool(usdc).TotalDeposits.Dec())
}

func TestFailedTransferLeavesNoState(t *testing.T) {
	s := newSuite(t, 0)
	before := len(s.transactions())

	s.transfer.beforeTransferFrom = func(ctx context.Context, assetID, from string) error {
		return core.ErrTransferFailed
	}

	s.fund(usdc, alice, units("100", 6))
	_, err := s.engine.Deposit(s.ctx, alice, usdc, units("100", 6))
	assert.ErrorIs(t, err, core.ErrTransferFailed)

	_, ok := s.storedPosition(usdc, alice)
	assert.False(t, ok)
	assert.True(t, s.pool(usdc).TotalDeposits.IsZero())
	assert.Equal(t, int64(1), s.pool(usdc).Version)
	assert.Len(t, s.transactions(), before)
	assert.Equal(t, units("100", 6).Dec(), s.balance(usdc, alice).Dec())
}

func TestInsufficientFundsRejectDeposit(t *testing.T) {
	s := newSuite(t, 0)

	_, err := s.engine.Deposit(s.ctx, alice, usdc, units("1", 6))
	assert.ErrorIs(t, err, core.ErrTransferFailed)
	assert.True(t, s.pool(usdc).TotalDeposits.IsZero())
}

func TestPause(t *testing.T) {
	s := newSuite(t, 0)
	s.deposit(alice, usdc, units("10", 6))

	_, err := s.engine.Pause(s.ctx, alice)
	assert.ErrorIs(t, err, core.ErrForbidden)

	tx, err := s.engine.Pause(s.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, core.ActionTypePause, tx.Action)

	paused, err := s.engine.Paused(s.ctx)
	require.NoError(t, err)
	assert.True(t, paused)

	_, err = s.engine.Deposit(s.ctx, alice, usdc, units("1", 6))
	assert.ErrorIs(t, err, core.ErrPaused)
	_, err = s.engine.Withdraw(s.ctx, alice, usdc, units("1", 6))
	assert.ErrorIs(t, err, core.ErrPaused)
	_, err = s.engine.ClaimReward(s.ctx, alice, usdc)
	assert.ErrorIs(t, err, core.ErrPaused)

	_, err = s.engine.Accrue(s.ctx, usdc)
	assert.NoError(t, err)

	_, err = s.engine.Unpause(s.ctx, admin)
	require.NoError(t, err)

	_, err = s.engine.Withdraw(s.ctx, alice, usdc, units("1", 6))
	assert.NoError(t, err)
}

func TestAddAsset(t *testing.T) {
	s := newSuite(t, 3)

	cfg := &core.AssetConfig{
		AssetID:          "btc",
		Decimals:         8,
		IsSupported:      true,
		CollateralFactor: number.MustRate("0.7"),
		BorrowFactor:     number.MustRate("0.9"),
		LiquidationBonus: number.MustRate("0.1"),
	}

	_, err := s.engine.AddAsset(s.ctx, alice, cfg)
	assert.ErrorIs(t, err, core.ErrForbidden)

	tx, err := s.engine.AddAsset(s.ctx, admin, cfg)
	require.NoError(t, err)
	assert.Equal(t, core.ActionTypeAddAsset, tx.Action)
	assert.Equal(t, "btc", tx.AssetID)

	pool := s.pool("btc")
	assert.Equal(t, number.Scale.Dec(), pool.BorrowIndex.Dec())
	assert.Equal(t, number.Scale.Dec(), pool.DepositIndex.Dec())
	assert.Equal(t, "100000000000000000", pool.ReserveFactor.Dec())
	assert.Equal(t, "3000000000000000000", pool.RewardPerUnit.Dec())
	assert.True(t, pool.TotalDeposits.IsZero())

	_, err = s.engine.AddAsset(s.ctx, admin, cfg)
	assert.ErrorIs(t, err, core.ErrAssetExists)

	bad := cfg.Clone()
	bad.AssetID = "bad"
	bad.CollateralFactor = number.MustRate("1.5")
	_, err = s.engine.AddAsset(s.ctx, admin, bad)
	assert.ErrorIs(t, err, core.ErrInvalidAssetConfig)

	_, isRecordNotFound, err := s.store.Pools().Find(s.ctx, "bad")
	require.NoError(t, err)
	assert.True(t, isRecordNotFound)
}

func TestUnsupportedAsset(t *testing.T) {
	s := newSuite(t, 0)

	_, err := s.engine.Deposit(s.ctx, alice, "doge", units("1", 6))
	assert.ErrorIs(t, err, core.ErrAssetNotSupported)

	cfg, _, err := s.assets.Find(s.ctx, usdc)
	require.NoError(t, err)
	cfg.IsSupported = false
	require.NoError(t, s.assets.Save(s.ctx, cfg))

	s.fund(usdc, alice, units("1", 6))
	_, err = s.engine.Deposit(s.ctx, alice, usdc, units("1", 6))
	assert.ErrorIs(t, err, core.ErrAssetNotSupported)
	assert.Equal(t, core.ErrorClassValidation, core.ClassOf(err))
}

func TestInvalidInput(t *testing.T) {
	s := newSuite(t, 0)

	_, err := s.engine.Deposit(s.ctx, alice, usdc, number.Zero())
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = s.engine.Deposit(s.ctx, "", usdc, units("1", 6))
	assert.ErrorIs(t, err, core.ErrInvalidUser)

	_, err = s.engine.Borrow(s.ctx, alice, usdc, new(uint256.Int).Lsh(uint256.NewInt(1), 200))
	assert.ErrorIs(t, err, core.ErrOverflow)
}
