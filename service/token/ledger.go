package token

import (
	"context"
	"fmt"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// Ledger book entry token. It moves pooled assets between holders and mints
// the reward asset; both paths share one balance store.
type Ledger struct {
	balances    core.IBalanceStore
	pool        string
	rewardAsset string
}

// New new ledger, pool is the holder owning pooled funds
func New(balances core.IBalanceStore, pool, rewardAsset string) *Ledger {
	return &Ledger{
		balances:    balances,
		pool:        pool,
		rewardAsset: rewardAsset,
	}
}

// Pool holder owning pooled funds
func (l *Ledger) Pool() string {
	return l.pool
}

// RewardAsset asset minted as reward
func (l *Ledger) RewardAsset() string {
	return l.rewardAsset
}

// TransferFrom implements core.IAssetTransfer
func (l *Ledger) TransferFrom(ctx context.Context, assetID, from, to string, amount *uint256.Int) error {
	if err := l.balances.Move(ctx, assetID, from, to, amount); err != nil {
		logger.FromContext(ctx).WithError(err).Infof("transfer %s %s from %s to %s failed", amount.Dec(), assetID, from, to)
		return fmt.Errorf("%w: %s", core.ErrTransferFailed, err.Error())
	}

	return nil
}

// Transfer implements core.IAssetTransfer, paying out of the pool
func (l *Ledger) Transfer(ctx context.Context, assetID, to string, amount *uint256.Int) error {
	return l.TransferFrom(ctx, assetID, l.pool, to, amount)
}

// Mint implements core.IValueToken
func (l *Ledger) Mint(ctx context.Context, to string, amount *uint256.Int) error {
	if err := l.balances.Mint(ctx, l.rewardAsset, to, amount); err != nil {
		return fmt.Errorf("%w: %s", core.ErrMintFailed, err.Error())
	}

	return nil
}

// Burn implements core.IValueToken
func (l *Ledger) Burn(ctx context.Context, from string, amount *uint256.Int) error {
	if err := l.balances.Burn(ctx, l.rewardAsset, from, amount); err != nil {
		return fmt.Errorf("%w: %s", core.ErrMintFailed, err.Error())
	}

	return nil
}

// Faucet mints any asset to a holder, used to fund accounts outside production
func (l *Ledger) Faucet(ctx context.Context, assetID, to string, amount *uint256.Int) error {
	return l.balances.Mint(ctx, assetID, to, amount)
}

// Balance balance of holder
func (l *Ledger) Balance(ctx context.Context, assetID, holder string) (*uint256.Int, error) {
	return l.balances.Find(ctx, assetID, holder)
}
