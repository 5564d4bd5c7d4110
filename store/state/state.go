package state

import (
	"context"

	"lending/core"
	"lending/store/dbtx"
	"lending/store/pool"
	"lending/store/position"
	"lending/store/transaction"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type stateStore struct {
	db           *db.DB
	pools        *pool.Store
	positions    *position.Store
	transactions *transaction.Store
}

// New engine store backed by the database. Commit writes the changeset and
// runs interact inside one database transaction.
func New(db *db.DB) core.IEngineStore {
	return &stateStore{
		db:           db,
		pools:        pool.New(db),
		positions:    position.New(db),
		transactions: transaction.New(db),
	}
}

func (s *stateStore) Pools() core.IPoolStore {
	return s.pools
}

func (s *stateStore) Positions() core.IPositionStore {
	return s.positions
}

func (s *stateStore) Transactions() core.ITransactionStore {
	return s.transactions
}

func (s *stateStore) Commit(ctx context.Context, changes *core.Changeset, interact func(ctx context.Context) error) error {
	log := logger.FromContext(ctx)

	return s.db.Tx(func(tx *db.DB) error {
		for _, p := range changes.Pools {
			if err := s.pools.Save(ctx, tx, p); err != nil {
				log.WithError(err).Errorln("pools.Save", p.AssetID)
				return err
			}
		}

		for _, p := range changes.Positions {
			if err := s.positions.Save(ctx, tx, p); err != nil {
				log.WithError(err).Errorln("positions.Save", p.AssetID, p.UserID)
				return err
			}
		}

		for _, t := range changes.Transactions {
			if err := s.transactions.Create(ctx, tx, t); err != nil {
				log.WithError(err).Errorln("transactions.Create", t.TraceID)
				return err
			}
		}

		if interact == nil {
			return nil
		}

		return interact(dbtx.WithContext(ctx, tx))
	})
}
