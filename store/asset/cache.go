package asset

import (
	"context"
	"fmt"

	"lending/core"

	"github.com/bluele/gcache"
	"github.com/holiman/uint256"
	"golang.org/x/sync/singleflight"
)

// Cache caches asset configs in a LRU; writes evict the entry
func Cache(store core.IAssetStore) core.IAssetStore {
	return &cacheAssetStore{
		IAssetStore: store,
		cache:       gcache.New(256).LRU().Build(),
		sf:          &singleflight.Group{},
	}
}

type cacheAssetStore struct {
	core.IAssetStore
	cache gcache.Cache
	sf    *singleflight.Group
}

type cachedAsset struct {
	asset    *core.AssetConfig
	notFound bool
}

func (s *cacheAssetStore) Save(ctx context.Context, asset *core.AssetConfig) error {
	defer s.cache.Remove(s.assetKey(asset.AssetID))
	return s.IAssetStore.Save(ctx, asset)
}

func (s *cacheAssetStore) AddReserves(ctx context.Context, assetID string, amount *uint256.Int) error {
	defer s.cache.Remove(s.assetKey(assetID))
	return s.IAssetStore.AddReserves(ctx, assetID, amount)
}

func (s *cacheAssetStore) Find(ctx context.Context, assetID string) (*core.AssetConfig, bool, error) {
	key := s.assetKey(assetID)
	if v, err := s.cache.Get(key); err == nil {
		if c, ok := v.(*cachedAsset); ok {
			return cloneCached(c)
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		asset, isRecordNotFound, err := s.IAssetStore.Find(ctx, assetID)
		if err != nil {
			return nil, err
		}

		c := &cachedAsset{asset: asset, notFound: isRecordNotFound}
		if !isRecordNotFound {
			_ = s.cache.Set(key, c)
		}

		return c, nil
	})
	if err != nil {
		return nil, false, err
	}

	return cloneCached(v.(*cachedAsset))
}

func cloneCached(c *cachedAsset) (*core.AssetConfig, bool, error) {
	if c.notFound {
		return nil, true, nil
	}

	return c.asset.Clone(), false, nil
}

func (s *cacheAssetStore) assetKey(assetID string) string {
	return fmt.Sprintf("asset:id:%s", assetID)
}
