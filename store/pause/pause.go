package pause

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/property"
)

const pausedKey = "lending_paused"

type pauseStore struct {
	properties property.Store
}

// New pause flag kept in the property store
func New(properties property.Store) core.IPauseStore {
	return &pauseStore{properties: properties}
}

func (s *pauseStore) IsPaused(ctx context.Context) (bool, error) {
	v, err := s.properties.Get(ctx, pausedKey)
	if err != nil {
		return false, err
	}

	return v.Int64() == 1, nil
}

func (s *pauseStore) SetPaused(ctx context.Context, paused bool) error {
	var v int64
	if paused {
		v = 1
	}

	return s.properties.Save(ctx, pausedKey, v)
}
