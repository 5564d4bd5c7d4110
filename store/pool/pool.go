package pool

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

// Store pool store
type Store struct {
	db *db.DB
}

// New new pool store
func New(db *db.DB) *Store {
	return &Store{
		db: db,
	}
}

var _ core.IPoolStore = (*Store)(nil)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.AssetPool{})
		if err := tx.AutoMigrate(core.AssetPool{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Find pool of assetID
func (s *Store) Find(ctx context.Context, assetID string) (*core.AssetPool, bool, error) {
	var pool core.AssetPool
	if err := s.db.View().Where("asset_id=?", assetID).First(&pool).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, true, nil
		}

		return nil, false, err
	}

	return &pool, false, nil
}

// All every pool
func (s *Store) All(ctx context.Context) ([]*core.AssetPool, error) {
	var pools []*core.AssetPool
	if err := s.db.View().Order("asset_id").Find(&pools).Error; err != nil {
		return nil, err
	}

	return pools, nil
}

// Save creates pool at version 0 or updates it if its version is unchanged
func (s *Store) Save(ctx context.Context, tx *db.DB, pool *core.AssetPool) error {
	version := pool.Version
	pool.Version++

	if version == 0 {
		return tx.Update().Create(pool).Error
	}

	update := tx.Update().Model(core.AssetPool{}).Where("asset_id=? and version=?", pool.AssetID, version).Updates(toUpdateParams(pool))
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return core.ErrConcurrentUpdate
	}

	return nil
}

func toUpdateParams(pool *core.AssetPool) map[string]interface{} {
	return map[string]interface{}{
		"total_deposits":       pool.TotalDeposits,
		"total_borrows":        pool.TotalBorrows,
		"total_reserves":       pool.TotalReserves,
		"borrow_index":         pool.BorrowIndex,
		"deposit_index":        pool.DepositIndex,
		"current_rate":         pool.CurrentRate,
		"borrow_rate":          pool.BorrowRate,
		"deposit_rate":         pool.DepositRate,
		"reserve_factor":       pool.ReserveFactor,
		"last_update_time":     pool.LastUpdateTime,
		"acc_reward_per_share": pool.AccRewardPerShare,
		"reward_per_unit":      pool.RewardPerUnit,
		"last_reward_unit":     pool.LastRewardUnit,
		"version":              pool.Version,
	}
}
