package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// IValueToken reward currency, minted on claim
type IValueToken interface {
	Mint(ctx context.Context, to string, amount *uint256.Int) error
	Burn(ctx context.Context, from string, amount *uint256.Int) error
}

// IAssetTransfer moves the pooled assets. Transfer pays out of the pool account.
type IAssetTransfer interface {
	TransferFrom(ctx context.Context, assetID, from, to string, amount *uint256.Int) error
	Transfer(ctx context.Context, assetID, to string, amount *uint256.Int) error
}

// Balance holder balance of one asset in the ledger token
type Balance struct {
	AssetID   string       `sql:"size:36;PRIMARY_KEY" json:"asset_id"`
	Holder    string       `sql:"size:64;PRIMARY_KEY" json:"holder"`
	Amount    *uint256.Int `sql:"type:varchar(80)" json:"amount"`
	CreatedAt time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IBalanceStore balance store interface
type IBalanceStore interface {
	Find(ctx context.Context, assetID, holder string) (*uint256.Int, error)
	// Move transfers amount, failing with ErrInsufficientBalance when from is short
	Move(ctx context.Context, assetID, from, to string, amount *uint256.Int) error
	Mint(ctx context.Context, assetID, to string, amount *uint256.Int) error
	Burn(ctx context.Context, assetID, from string, amount *uint256.Int) error
}
