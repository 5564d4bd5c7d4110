package oracle

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"lending/core"
	"lending/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// PriceService normalizes feed answers to 1e18 scaled USD prices
type PriceService struct {
	feed   core.IPriceFeed
	maxAge time.Duration
	now    func() time.Time
}

// New new oracle price service; maxAge <= 0 disables the staleness check
func New(feed core.IPriceFeed, maxAge time.Duration) *PriceService {
	return &PriceService{
		feed:   feed,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for the staleness check
func (s *PriceService) WithClock(now func() time.Time) *PriceService {
	s.now = now
	return s
}

// GetAssetPrice current USD price of asset
func (s *PriceService) GetAssetPrice(ctx context.Context, asset *core.AssetConfig) (*uint256.Int, error) {
	log := logger.FromContext(ctx).WithField("feed", asset.Feed())

	data, err := s.feed.LatestPrice(ctx, asset.Feed())
	if err != nil {
		log.WithError(err).Errorln("feed.LatestPrice")
		return nil, fmt.Errorf("price of %s: %w", asset.AssetID, core.ErrPriceUnavailable)
	}

	if s.maxAge > 0 && s.now().Sub(data.UpdatedAt) > s.maxAge {
		log.Infof("stale price, updated at %s", data.UpdatedAt)
		return nil, fmt.Errorf("price of %s: %w", asset.AssetID, core.ErrStalePrice)
	}

	price, err := Normalize(data.Answer, data.Decimals)
	if err != nil {
		return nil, fmt.Errorf("price of %s: %w", asset.AssetID, err)
	}

	return price, nil
}

// Normalize scales a signed feed answer with the given decimals to 1e18,
// rejecting answers that are not strictly positive.
func Normalize(answer *big.Int, decimals uint8) (*uint256.Int, error) {
	if answer == nil || answer.Sign() <= 0 {
		return nil, core.ErrInvalidPrice
	}

	price, overflow := uint256.FromBig(answer)
	if overflow {
		return nil, core.ErrOverflow
	}

	switch {
	case decimals < 18:
		price, err := number.Mul(price, number.Pow10(18-decimals))
		if err != nil {
			return nil, err
		}

		return price, nil
	case decimals > 18:
		price = new(uint256.Int).Div(price, number.Pow10(decimals-18))
	}

	if price.IsZero() {
		return nil, core.ErrInvalidPrice
	}

	return price, nil
}
