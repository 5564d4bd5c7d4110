package memory

import (
	"context"
	"sort"
	"sync"

	"lending/core"
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

type assetStore struct {
	mux    sync.RWMutex
	assets map[string]*core.AssetConfig
}

// NewAssetStore new memory asset store
func NewAssetStore() core.IAssetStore {
	return &assetStore{assets: make(map[string]*core.AssetConfig)}
}

func (s *assetStore) Save(ctx context.Context, asset *core.AssetConfig) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.assets[asset.AssetID] = asset.Clone()
	return nil
}

func (s *assetStore) Find(ctx context.Context, assetID string) (*core.AssetConfig, bool, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	asset, ok := s.assets[assetID]
	if !ok {
		return nil, true, nil
	}

	return asset.Clone(), false, nil
}

func (s *assetStore) All(ctx context.Context) ([]*core.AssetConfig, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	assets := make([]*core.AssetConfig, 0, len(s.assets))
	for _, a := range s.assets {
		assets = append(assets, a.Clone())
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].AssetID < assets[j].AssetID })
	return assets, nil
}

func (s *assetStore) AddReserves(ctx context.Context, assetID string, amount *uint256.Int) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	asset, ok := s.assets[assetID]
	if !ok {
		return core.ErrAssetNotSupported
	}

	reserves, err := number.Add(number.Clone(asset.Reserves), amount)
	if err != nil {
		return err
	}

	asset.Reserves = reserves
	return nil
}
