package position

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

// Store position store
type Store struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) *Store {
	return &Store{
		db: db,
	}
}

var _ core.IPositionStore = (*Store)(nil)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.UserPosition{})
		if err := tx.AutoMigrate(core.UserPosition{}).Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_user_positions_user_id", "user_id").Error; err != nil {
			return err
		}

		return nil
	})
}

// Find position of userID in assetID
func (s *Store) Find(ctx context.Context, assetID, userID string) (*core.UserPosition, bool, error) {
	var pos core.UserPosition
	if err := s.db.View().Where("asset_id=? and user_id=?", assetID, userID).First(&pos).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, true, nil
		}

		return nil, false, err
	}

	return &pos, false, nil
}

// FindByUser positions of userID in every asset
func (s *Store) FindByUser(ctx context.Context, userID string) ([]*core.UserPosition, error) {
	var positions []*core.UserPosition
	if err := s.db.View().Where("user_id=?", userID).Order("asset_id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

// FindByAsset positions of every user in assetID
func (s *Store) FindByAsset(ctx context.Context, assetID string) ([]*core.UserPosition, error) {
	var positions []*core.UserPosition
	if err := s.db.View().Where("asset_id=?", assetID).Order("user_id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

// Save creates pos at version 0 or updates it if its version is unchanged
func (s *Store) Save(ctx context.Context, tx *db.DB, pos *core.UserPosition) error {
	version := pos.Version
	pos.Version++

	if version == 0 {
		return tx.Update().Create(pos).Error
	}

	update := tx.Update().Model(core.UserPosition{}).
		Where("asset_id=? and user_id=? and version=?", pos.AssetID, pos.UserID, version).
		Updates(map[string]interface{}{
			"deposit_amount":   pos.DepositAmount,
			"borrow_amount":    pos.BorrowAmount,
			"last_update_time": pos.LastUpdateTime,
			"reward_debt":      pos.RewardDebt,
			"borrow_index":     pos.BorrowIndex,
			"deposit_index":    pos.DepositIndex,
			"rewards_claimed":  pos.RewardsClaimed,
			"version":          pos.Version,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return core.ErrConcurrentUpdate
	}

	return nil
}
