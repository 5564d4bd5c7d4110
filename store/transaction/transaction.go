package transaction

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

// Store transaction store
type Store struct {
	db *db.DB
}

// New new transaction store
func New(db *db.DB) *Store {
	return &Store{
		db: db,
	}
}

var _ core.ITransactionStore = (*Store)(nil)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transaction{})
		if err := tx.AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Create inserts transaction, failing with ErrConcurrentUpdate when its
// trace id was already written
func (s *Store) Create(ctx context.Context, tx *db.DB, transaction *core.Transaction) error {
	var count int
	if err := tx.Update().Model(core.Transaction{}).Where("trace_id=?", transaction.TraceID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return core.ErrConcurrentUpdate
	}

	return tx.Update().Create(transaction).Error
}

// FindByTraceID transaction with traceID
func (s *Store) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, bool, error) {
	var transaction core.Transaction
	if err := s.db.View().Where("trace_id=?", traceID).First(&transaction).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, true, nil
		}

		return nil, false, err
	}

	return &transaction, false, nil
}

// List transactions with id above fromID, oldest first
func (s *Store) List(ctx context.Context, fromID int64, limit int) ([]*core.Transaction, error) {
	var transactions []*core.Transaction
	if limit <= 0 {
		limit = 500
	}

	if err := s.db.View().Where("id > ?", fromID).Order("id ASC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}

// ListByUser transactions of userID, including those it only took part in
func (s *Store) ListByUser(ctx context.Context, userID string, fromID int64, limit int) ([]*core.Transaction, error) {
	if limit <= 0 {
		limit = 500
	}

	var transactions []*core.Transaction
	for len(transactions) < limit {
		var batch []*core.Transaction
		query := s.db.View().
			Where("id > ? and (user_id = ? or participants like ?)", fromID, userID, "%"+userID+"%").
			Order("id ASC").
			Limit(limit)
		if err := query.Find(&batch).Error; err != nil {
			return nil, err
		}

		for _, t := range batch {
			if involves(t, userID) {
				transactions = append(transactions, t)
			}
			fromID = t.ID
		}

		if len(batch) < limit {
			break
		}
	}

	if len(transactions) > limit {
		transactions = transactions[:limit]
	}

	return transactions, nil
}

// involves filters the loose participants match of ListByUser
func involves(t *core.Transaction, userID string) bool {
	if t.UserID == userID {
		return true
	}

	for _, p := range t.Participants {
		if p == userID {
			return true
		}
	}

	return false
}
