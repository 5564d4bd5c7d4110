package core

import (
	"context"
	"math/big"
	"time"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// PriceData raw feed answer. Answer is signed so a broken feed reporting a
// negative value can be detected instead of wrapping.
type PriceData struct {
	Answer    *big.Int  `json:"answer"`
	Decimals  uint8     `json:"decimals"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IPriceFeed price oracle collaborator
type IPriceFeed interface {
	LatestPrice(ctx context.Context, feed string) (*PriceData, error)
}

// IPriceService normalized USD prices, 1e18 scaled
type IPriceService interface {
	GetAssetPrice(ctx context.Context, asset *AssetConfig) (*uint256.Int, error)
}

// PriceTicker price ticker served by the http oracle
type PriceTicker struct {
	Provider  string          `json:"provider,omitempty"`
	Symbol    string          `json:"symbol,omitempty"`
	Price     decimal.Decimal `json:"price,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}
