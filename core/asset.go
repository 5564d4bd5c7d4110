package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// AssetConfig registry entry of a supported asset
type AssetConfig struct {
	AssetID     string `sql:"size:36;PRIMARY_KEY" json:"asset_id"`
	Symbol      string `sql:"size:32" json:"symbol"`
	Name        string `sql:"size:64" json:"name"`
	Decimals    uint8  `json:"decimals"`
	Icon        string `sql:"size:256" json:"icon"`
	IsSupported bool   `json:"is_supported"`
	// factors are 1e18 scaled, within [0, 1e18]
	CollateralFactor *uint256.Int `sql:"type:varchar(80)" json:"collateral_factor"`
	BorrowFactor     *uint256.Int `sql:"type:varchar(80)" json:"borrow_factor"`
	LiquidationBonus *uint256.Int `sql:"type:varchar(80)" json:"liquidation_bonus"`
	// PriceFeed feed key handed to the oracle, the asset id when empty
	PriceFeed string `sql:"size:64" json:"price_feed"`
	// Reserves protocol reserve collected from this asset's borrow interest
	Reserves  *uint256.Int `sql:"type:varchar(80)" json:"reserves"`
	Version   int64        `sql:"default:0" json:"version"`
	CreatedAt time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Feed price feed key
func (a *AssetConfig) Feed() string {
	if a.PriceFeed != "" {
		return a.PriceFeed
	}

	return a.AssetID
}

// IAssetRegistry asset configuration collaborator, also the sink of the
// reserve cut of borrow interest.
type IAssetRegistry interface {
	GetConfig(ctx context.Context, assetID string) (*AssetConfig, error)
	GetSupportedAssets(ctx context.Context) ([]*AssetConfig, error)
	AddReserves(ctx context.Context, assetID string, amount *uint256.Int) error
	Register(ctx context.Context, cfg *AssetConfig) error
}

// IAssetStore asset store interface
type IAssetStore interface {
	Save(ctx context.Context, asset *AssetConfig) error
	Find(ctx context.Context, assetID string) (*AssetConfig, bool, error)
	All(ctx context.Context) ([]*AssetConfig, error)
	AddReserves(ctx context.Context, assetID string, amount *uint256.Int) error
}

// Clone deep copy
func (a *AssetConfig) Clone() *AssetConfig {
	c := *a
	c.CollateralFactor = cloneInt(a.CollateralFactor)
	c.BorrowFactor = cloneInt(a.BorrowFactor)
	c.LiquidationBonus = cloneInt(a.LiquidationBonus)
	c.Reserves = cloneInt(a.Reserves)
	return &c
}
