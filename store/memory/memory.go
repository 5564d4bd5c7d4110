package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lending/core"
)

// Store map backed engine store. Commit expects its callers to be
// serialized, which the engine's call guard does.
type Store struct {
	mux          sync.RWMutex
	pools        map[string]*core.AssetPool
	positions    map[string]map[string]*core.UserPosition
	transactions []*core.Transaction
	traces       map[string]*core.Transaction
}

// New new memory engine store
func New() *Store {
	return &Store{
		pools:     make(map[string]*core.AssetPool),
		positions: make(map[string]map[string]*core.UserPosition),
		traces:    make(map[string]*core.Transaction),
	}
}

var _ core.IEngineStore = (*Store)(nil)

// Pools pool store view
func (s *Store) Pools() core.IPoolStore {
	return &poolStore{s}
}

// Positions position store view
func (s *Store) Positions() core.IPositionStore {
	return &positionStore{s}
}

// Transactions transaction store view
func (s *Store) Transactions() core.ITransactionStore {
	return &transactionStore{s}
}

type undo struct {
	pools        map[string]*core.AssetPool
	positions    map[[2]string]*core.UserPosition
	transactions int
}

// Commit implements core.IEngineStore
func (s *Store) Commit(ctx context.Context, changes *core.Changeset, interact func(ctx context.Context) error) error {
	s.mux.Lock()
	if err := s.checkVersions(changes); err != nil {
		s.mux.Unlock()
		return err
	}

	u := s.apply(changes)
	s.mux.Unlock()

	if interact == nil {
		return nil
	}

	if err := interact(ctx); err != nil {
		s.mux.Lock()
		s.rollback(u)
		s.mux.Unlock()
		return err
	}

	return nil
}

func (s *Store) checkVersions(changes *core.Changeset) error {
	for _, p := range changes.Pools {
		var version int64
		if cur, ok := s.pools[p.AssetID]; ok {
			version = cur.Version
		}

		if version != p.Version {
			return core.ErrConcurrentUpdate
		}
	}

	for _, p := range changes.Positions {
		var version int64
		if cur, ok := s.positions[p.AssetID][p.UserID]; ok {
			version = cur.Version
		}

		if version != p.Version {
			return core.ErrConcurrentUpdate
		}
	}

	for _, t := range changes.Transactions {
		if _, ok := s.traces[t.TraceID]; ok {
			return core.ErrConcurrentUpdate
		}
	}

	return nil
}

func (s *Store) apply(changes *core.Changeset) *undo {
	u := &undo{
		pools:        make(map[string]*core.AssetPool),
		positions:    make(map[[2]string]*core.UserPosition),
		transactions: len(s.transactions),
	}

	now := time.Now()
	for _, p := range changes.Pools {
		u.pools[p.AssetID] = s.pools[p.AssetID]
		p.Version++
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		s.pools[p.AssetID] = p.Clone()
	}

	for _, p := range changes.Positions {
		users, ok := s.positions[p.AssetID]
		if !ok {
			users = make(map[string]*core.UserPosition)
			s.positions[p.AssetID] = users
		}

		u.positions[[2]string{p.AssetID, p.UserID}] = users[p.UserID]
		p.Version++
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		users[p.UserID] = p.Clone()
	}

	for _, t := range changes.Transactions {
		t.ID = int64(len(s.transactions) + 1)
		t.CreatedAt = now
		c := *t
		s.transactions = append(s.transactions, &c)
		s.traces[t.TraceID] = &c
	}

	return u
}

func (s *Store) rollback(u *undo) {
	for id, prev := range u.pools {
		if prev == nil {
			delete(s.pools, id)
			continue
		}
		s.pools[id] = prev
	}

	for key, prev := range u.positions {
		if prev == nil {
			delete(s.positions[key[0]], key[1])
			continue
		}
		s.positions[key[0]][key[1]] = prev
	}

	for _, t := range s.transactions[u.transactions:] {
		delete(s.traces, t.TraceID)
	}
	s.transactions = s.transactions[:u.transactions]
}

type poolStore struct{ s *Store }

func (v *poolStore) Find(ctx context.Context, assetID string) (*core.AssetPool, bool, error) {
	v.s.mux.RLock()
	defer v.s.mux.RUnlock()

	pool, ok := v.s.pools[assetID]
	if !ok {
		return nil, true, nil
	}

	return pool.Clone(), false, nil
}

func (v *poolStore) All(ctx context.Context) ([]*core.AssetPool, error) {
	v.s.mux.RLock()
	defer v.s.mux.RUnlock()

	pools := make([]*core.AssetPool, 0, len(v.s.pools))
	for _, p := range v.s.pools {
		pools = append(pools, p.Clone())
	}

	sort.Slice(pools, func(i, j int) bool { return pools[i].AssetID < pools[j].AssetID })
	return pools, nil
}

type positionStore struct{ s *Store }

func (v *positionStore) Find(ctx context.Context, assetID, userID string) (*core.UserPosition, bool, error) {
	v.s.mux.RLock()
	defer v.s.mux.RUnlock()

	pos, ok := v.s.positions[assetID][userID]
	if !ok {
		return nil, true, nil
	}

	return pos.Clone(), false, nil
}

func (v *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.UserPosition, error) {
	v.s.mux.RLock()
	defer v.s.mux.RUnlock()

	var positions []*core.UserPosition
	for _, users := range v.s.positions {
		if pos, ok := users[userID]; ok {
			positions = append(positions, pos.Clone())
		}
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].AssetID < positions[j].AssetID })
	return positions, nil
}

func (v *positionStore) FindByAsset(ctx context.Context, assetID string) ([]*core.UserPosition, error) {
	v.s.mux.RLock()
	defer v.s.mux.RUnlock()

	positions := make([]*core.UserPosition, 0, len(v.s.positions[assetID]))
	for _, pos := range v.s.positions[assetID] {
		positions = append(positions, pos.Clone())
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].UserID < positions[j].UserID })
	return positions, nil
}

type transactionStore struct{ s *Store }

func (v *transactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, bool, error) {
	v.s.mux.RLock()
	defer v.s.mux.RUnlock()

	t, ok := v.s.traces[traceID]
	if !ok {
		return nil, true, nil
	}

	c := *t
	return &c, false, nil
}

func (v *transactionStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Transaction, error) {
	return v.list(fromID, limit, func(*core.Transaction) bool { return true })
}

func (v *transactionStore) ListByUser(ctx context.Context, userID string, fromID int64, limit int) ([]*core.Transaction, error) {
	return v.list(fromID, limit, func(t *core.Transaction) bool {
		if t.UserID == userID {
			return true
		}

		for _, p := range t.Participants {
			if p == userID {
				return true
			}
		}

		return false
	})
}

func (v *transactionStore) list(fromID int64, limit int, match func(*core.Transaction) bool) ([]*core.Transaction, error) {
	v.s.mux.RLock()
	defer v.s.mux.RUnlock()

	if limit <= 0 {
		limit = 500
	}

	var transactions []*core.Transaction
	for _, t := range v.s.transactions {
		if t.ID <= fromID || !match(t) {
			continue
		}

		c := *t
		transactions = append(transactions, &c)
		if len(transactions) >= limit {
			break
		}
	}

	return transactions, nil
}
