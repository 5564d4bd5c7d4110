package core

import (
	"context"
)

// Changeset writes of one engine operation
type Changeset struct {
	Pools        []*AssetPool
	Positions    []*UserPosition
	Transactions []*Transaction
}

// IsEmpty nothing to write
func (c *Changeset) IsEmpty() bool {
	return len(c.Pools) == 0 && len(c.Positions) == 0 && len(c.Transactions) == 0
}

// IEngineStore persistence of the engine. Commit applies the changeset, then
// runs interact; if interact fails every write of the changeset is undone.
// Pool and position versions are checked optimistically and bumped on write.
type IEngineStore interface {
	Pools() IPoolStore
	Positions() IPositionStore
	Transactions() ITransactionStore
	Commit(ctx context.Context, changes *Changeset, interact func(ctx context.Context) error) error
}

// IPauseStore persisted pause flag
type IPauseStore interface {
	IsPaused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error
}
