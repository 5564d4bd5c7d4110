package registry

import (
	"context"
	"fmt"

	"lending/core"
	"lending/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// maxDecimals keeps 10^decimals and price math inside 256 bits
const maxDecimals = 36

type registry struct {
	assets core.IAssetStore
}

// New asset registry backed by an asset store
func New(assets core.IAssetStore) core.IAssetRegistry {
	return &registry{assets: assets}
}

func (r *registry) GetConfig(ctx context.Context, assetID string) (*core.AssetConfig, error) {
	asset, isRecordNotFound, err := r.assets.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if isRecordNotFound {
		return nil, fmt.Errorf("asset %s: %w", assetID, core.ErrAssetNotSupported)
	}

	return asset, nil
}

func (r *registry) GetSupportedAssets(ctx context.Context) ([]*core.AssetConfig, error) {
	assets, err := r.assets.All(ctx)
	if err != nil {
		return nil, err
	}

	supported := make([]*core.AssetConfig, 0, len(assets))
	for _, a := range assets {
		if a.IsSupported {
			supported = append(supported, a)
		}
	}

	return supported, nil
}

func (r *registry) AddReserves(ctx context.Context, assetID string, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}

	return r.assets.AddReserves(ctx, assetID, amount)
}

func (r *registry) Register(ctx context.Context, cfg *core.AssetConfig) error {
	log := logger.FromContext(ctx).WithField("asset", cfg.AssetID)

	if err := Validate(cfg); err != nil {
		return err
	}

	_, isRecordNotFound, err := r.assets.Find(ctx, cfg.AssetID)
	if err != nil {
		return err
	}

	if !isRecordNotFound {
		return fmt.Errorf("asset %s: %w", cfg.AssetID, core.ErrAssetExists)
	}

	if cfg.Reserves == nil {
		cfg.Reserves = number.Zero()
	}

	if err := r.assets.Save(ctx, cfg); err != nil {
		log.WithError(err).Errorln("assets.Save")
		return err
	}

	log.Infoln("asset registered")
	return nil
}

// Validate checks ids, decimals and that every factor lies within [0, 1e18]
func Validate(cfg *core.AssetConfig) error {
	if err := core.ValidateAssetID(cfg.AssetID); err != nil {
		return fmt.Errorf("asset id %q: %w", cfg.AssetID, core.ErrInvalidAssetConfig)
	}

	if cfg.Decimals > maxDecimals {
		return fmt.Errorf("decimals %d: %w", cfg.Decimals, core.ErrInvalidAssetConfig)
	}

	factors := map[string]*uint256.Int{
		"collateral_factor": cfg.CollateralFactor,
		"borrow_factor":     cfg.BorrowFactor,
		"liquidation_bonus": cfg.LiquidationBonus,
	}

	for name, f := range factors {
		if f == nil || f.Gt(number.Scale) {
			return fmt.Errorf("%s: %w", name, core.ErrInvalidAssetConfig)
		}
	}

	return nil
}
