package oracle

import (
	"context"
	"time"

	"lending/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache caches feed answers for ttl, concurrent misses share one request
func Cache(feed core.IPriceFeed, ttl time.Duration) core.IPriceFeed {
	if ttl <= 0 {
		return feed
	}

	return &cacheFeed{
		IPriceFeed: feed,
		ttl:        ttl,
		cache:      gcache.New(512).LRU().Build(),
		sf:         &singleflight.Group{},
	}
}

type cacheFeed struct {
	core.IPriceFeed
	ttl   time.Duration
	cache gcache.Cache
	sf    *singleflight.Group
}

func (c *cacheFeed) LatestPrice(ctx context.Context, feed string) (*core.PriceData, error) {
	if v, err := c.cache.Get(feed); err == nil {
		if data, ok := v.(*core.PriceData); ok {
			return data, nil
		}
	}

	v, err, _ := c.sf.Do(feed, func() (interface{}, error) {
		data, err := c.IPriceFeed.LatestPrice(ctx, feed)
		if err != nil {
			return nil, err
		}

		_ = c.cache.SetWithExpire(feed, data, c.ttl)
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.PriceData), nil
}
