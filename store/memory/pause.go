package memory

import (
	"context"
	"sync/atomic"

	"lending/core"
)

type pauseStore struct {
	paused atomic.Bool
}

// NewPauseStore new memory pause store
func NewPauseStore() core.IPauseStore {
	return &pauseStore{}
}

func (s *pauseStore) IsPaused(ctx context.Context) (bool, error) {
	return s.paused.Load(), nil
}

func (s *pauseStore) SetPaused(ctx context.Context, paused bool) error {
	s.paused.Store(paused)
	return nil
}
