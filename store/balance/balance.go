package balance

import (
	"context"

	"lending/core"
	"lending/pkg/number"
	"lending/store/dbtx"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/holiman/uint256"
)

type balanceStore struct {
	db *db.DB
}

// New new balance store
func New(db *db.DB) core.IBalanceStore {
	return &balanceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Balance{})
		if err := tx.AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *balanceStore) Find(ctx context.Context, assetID, holder string) (*uint256.Int, error) {
	return find(dbtx.FromContext(ctx, s.db), assetID, holder)
}

func find(tx *db.DB, assetID, holder string) (*uint256.Int, error) {
	var b core.Balance
	if err := tx.View().Where("asset_id=? and holder=?", assetID, holder).First(&b).Error; err != nil {
		if store.IsErrNotFound(err) {
			return number.Zero(), nil
		}

		return nil, err
	}

	return number.Clone(b.Amount), nil
}

func (s *balanceStore) Move(ctx context.Context, assetID, from, to string, amount *uint256.Int) error {
	return s.tx(ctx, func(tx *db.DB) error {
		if err := adjust(tx, assetID, from, func(cur *uint256.Int) (*uint256.Int, error) {
			if cur.Lt(amount) {
				return nil, core.ErrInsufficientBalance
			}

			return new(uint256.Int).Sub(cur, amount), nil
		}); err != nil {
			return err
		}

		return adjust(tx, assetID, to, func(cur *uint256.Int) (*uint256.Int, error) {
			return number.Add(cur, amount)
		})
	})
}

func (s *balanceStore) Mint(ctx context.Context, assetID, to string, amount *uint256.Int) error {
	return s.tx(ctx, func(tx *db.DB) error {
		return adjust(tx, assetID, to, func(cur *uint256.Int) (*uint256.Int, error) {
			return number.Add(cur, amount)
		})
	})
}

func (s *balanceStore) Burn(ctx context.Context, assetID, from string, amount *uint256.Int) error {
	return s.tx(ctx, func(tx *db.DB) error {
		return adjust(tx, assetID, from, func(cur *uint256.Int) (*uint256.Int, error) {
			if cur.Lt(amount) {
				return nil, core.ErrInsufficientBalance
			}

			return new(uint256.Int).Sub(cur, amount), nil
		})
	})
}

// tx joins the transaction carried by ctx or opens a new one
func (s *balanceStore) tx(ctx context.Context, fn func(tx *db.DB) error) error {
	if tx := dbtx.FromContext(ctx, nil); tx != nil {
		return fn(tx)
	}

	return s.db.Tx(fn)
}

// adjust sets the balance of holder to fn(current), compare and set on the
// previous amount
func adjust(tx *db.DB, assetID, holder string, fn func(cur *uint256.Int) (*uint256.Int, error)) error {
	var b core.Balance
	err := tx.Update().Where("asset_id=? and holder=?", assetID, holder).First(&b).Error
	if err != nil && !store.IsErrNotFound(err) {
		return err
	}

	if err != nil {
		amount, err := fn(number.Zero())
		if err != nil {
			return err
		}

		return tx.Update().Create(&core.Balance{
			AssetID: assetID,
			Holder:  holder,
			Amount:  amount,
		}).Error
	}

	amount, err := fn(number.Clone(b.Amount))
	if err != nil {
		return err
	}

	update := tx.Update().Model(core.Balance{}).
		Where("asset_id=? and holder=? and amount=?", assetID, holder, b.Amount).
		Updates(map[string]interface{}{"amount": amount})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return core.ErrConcurrentUpdate
	}

	return nil
}
