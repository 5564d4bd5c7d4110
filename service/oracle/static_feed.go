package oracle

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"lending/core"

	"github.com/shopspring/decimal"
)

// staticDecimals answers are kept with 8 decimals like common USD feeds
const staticDecimals = 8

// StaticFeed fixed prices, always fresh
type StaticFeed struct {
	mux    sync.RWMutex
	prices map[string]*big.Int
}

// NewStaticFeed builds a feed from decimal USD prices keyed by feed
func NewStaticFeed(prices map[string]string) (*StaticFeed, error) {
	f := &StaticFeed{prices: make(map[string]*big.Int, len(prices))}
	for feed, v := range prices {
		if err := f.Set(feed, v); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Set updates the price of feed
func (f *StaticFeed) Set(feed, price string) error {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Errorf("price of %s: %w", feed, err)
	}

	f.mux.Lock()
	f.prices[feed] = d.Shift(staticDecimals).Truncate(0).BigInt()
	f.mux.Unlock()
	return nil
}

// LatestPrice implements core.IPriceFeed
func (f *StaticFeed) LatestPrice(ctx context.Context, feed string) (*core.PriceData, error) {
	f.mux.RLock()
	answer, ok := f.prices[feed]
	f.mux.RUnlock()

	if !ok {
		return nil, fmt.Errorf("feed %s not found", feed)
	}

	return &core.PriceData{
		Answer:    new(big.Int).Set(answer),
		Decimals:  staticDecimals,
		UpdatedAt: time.Now(),
	}, nil
}
