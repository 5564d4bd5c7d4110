package asset

import (
	"context"

	"lending/core"
	"lending/pkg/number"
	"lending/store/dbtx"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
	"github.com/jinzhu/gorm"
)

type assetStore struct {
	db *db.DB
}

// New new asset store
func New(db *db.DB) core.IAssetStore {
	return &assetStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.AssetConfig{})
		if err := tx.AutoMigrate(core.AssetConfig{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *assetStore) Save(ctx context.Context, asset *core.AssetConfig) error {
	tx := dbtx.FromContext(ctx, s.db).Update()

	var count int
	if err := tx.Model(core.AssetConfig{}).Where("asset_id=?", asset.AssetID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return tx.Create(asset).Error
	}

	return tx.Model(core.AssetConfig{}).Where("asset_id=?", asset.AssetID).Updates(map[string]interface{}{
		"symbol":            asset.Symbol,
		"name":              asset.Name,
		"decimals":          asset.Decimals,
		"icon":              asset.Icon,
		"is_supported":      asset.IsSupported,
		"collateral_factor": asset.CollateralFactor,
		"borrow_factor":     asset.BorrowFactor,
		"liquidation_bonus": asset.LiquidationBonus,
		"price_feed":        asset.PriceFeed,
		"version":           gorm.Expr("version + 1"),
	}).Error
}

func (s *assetStore) Find(ctx context.Context, assetID string) (*core.AssetConfig, bool, error) {
	var asset core.AssetConfig
	if err := dbtx.FromContext(ctx, s.db).View().Where("asset_id=?", assetID).First(&asset).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, true, nil
		}

		return nil, false, err
	}

	return &asset, false, nil
}

func (s *assetStore) All(ctx context.Context) ([]*core.AssetConfig, error) {
	var assets []*core.AssetConfig
	if err := s.db.View().Order("asset_id").Find(&assets).Error; err != nil {
		return nil, err
	}

	return assets, nil
}

func (s *assetStore) AddReserves(ctx context.Context, assetID string, amount *uint256.Int) error {
	tx := dbtx.FromContext(ctx, s.db)

	asset, isRecordNotFound, err := s.Find(ctx, assetID)
	if err != nil {
		return err
	}

	if isRecordNotFound {
		return core.ErrAssetNotSupported
	}

	if asset.Reserves == nil {
		asset.Reserves = number.Zero()
	}

	reserves, err := number.Add(asset.Reserves, amount)
	if err != nil {
		return err
	}

	update := tx.Update().Model(core.AssetConfig{}).
		Where("asset_id=? and version=?", assetID, asset.Version).
		Updates(map[string]interface{}{
			"reserves": reserves,
			"version":  asset.Version + 1,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return core.ErrConcurrentUpdate
	}

	return nil
}
