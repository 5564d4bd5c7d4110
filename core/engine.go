package core

import (
	"context"

	"github.com/holiman/uint256"
)

// IEngine the lending engine. Mutating calls return the transaction they logged.
type IEngine interface {
	Deposit(ctx context.Context, userID, assetID string, amount *uint256.Int) (*Transaction, error)
	Withdraw(ctx context.Context, userID, assetID string, amount *uint256.Int) (*Transaction, error)
	Borrow(ctx context.Context, userID, assetID string, amount *uint256.Int) (*Transaction, error)
	Repay(ctx context.Context, userID, assetID string, amount *uint256.Int) (*Transaction, error)
	ClaimReward(ctx context.Context, userID, assetID string) (*Transaction, error)
	// Liquidate repays borrower's debt in assetID and seizes collateralAssetID,
	// which defaults to assetID when empty.
	Liquidate(ctx context.Context, liquidator, assetID, borrower string, repayAmount *uint256.Int, collateralAssetID string) (*Transaction, error)
	AddAsset(ctx context.Context, caller string, cfg *AssetConfig) (*Transaction, error)
	Pause(ctx context.Context, caller string) (*Transaction, error)
	Unpause(ctx context.Context, caller string) (*Transaction, error)
	Accrue(ctx context.Context, assetID string) (*AssetPool, error)

	Paused(ctx context.Context) (bool, error)
	Pool(ctx context.Context, assetID string) (*AssetPool, error)
	Pools(ctx context.Context) ([]*AssetPool, error)
	Position(ctx context.Context, assetID, userID string) (*UserPosition, error)
	AccRewardPerShare(ctx context.Context, assetID string) (*uint256.Int, error)
	PendingReward(ctx context.Context, assetID, userID string) (*uint256.Int, error)
	GetUserBorrowLimit(ctx context.Context, userID, assetID string) (*BorrowLimit, error)
	GetCollateralValue(ctx context.Context, userID string) (*uint256.Int, error)
	GetUserTotalValueInUSD(ctx context.Context, userID string) (deposit, borrow *uint256.Int, err error)
	GetTotalValues(ctx context.Context) (deposit, borrow *uint256.Int, err error)
	GetAssetPrice(ctx context.Context, assetID string) (*uint256.Int, error)
	HealthFactor(ctx context.Context, userID string) (*uint256.Int, error)
	Account(ctx context.Context, userID string) (*Account, error)
}
