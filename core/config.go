package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config lending config
type Config struct {
	App         App           `json:"app"`
	DB          db.Config     `json:"db"`
	PriceOracle PriceOracle   `json:"price_oracle"`
	Admins      []string      `json:"admins"`
	Assets      []AssetOption `json:"assets"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	// Genesis unix seconds of block zero
	Genesis         int64 `json:"genesis"`
	SecondsPerBlock int64 `json:"seconds_per_block"`
	// RewardUnit "block" or "second"
	RewardUnit string `json:"reward_unit"`
	// RewardPerUnit reward token base units emitted per unit per asset
	RewardPerUnit string `json:"reward_per_unit"`
	// CloseFactor max fraction of a debt repaid by one liquidation, e.g. "0.5"
	CloseFactor string `json:"close_factor"`
	// MaxPriceAge e.g. "1h", prices older than this are rejected
	MaxPriceAge string `json:"max_price_age"`
	// PoolAccount ledger holder owning pooled funds
	PoolAccount string `json:"pool_account"`
	// RewardAsset ledger asset minted as reward
	RewardAsset string `json:"reward_asset"`
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint string `json:"end_point"`
	Timeout  string `json:"timeout"`
	CacheTTL string `json:"cache_ttl"`
	// Prices static USD prices by feed key, used when EndPoint is empty
	Prices map[string]string `json:"prices"`
}

// AssetOption asset registered at start up, factors as decimal strings
type AssetOption struct {
	AssetID          string `json:"asset_id"`
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	Decimals         uint8  `json:"decimals"`
	Icon             string `json:"icon"`
	CollateralFactor string `json:"collateral_factor"`
	BorrowFactor     string `json:"borrow_factor"`
	LiquidationBonus string `json:"liquidation_bonus"`
	PriceFeed        string `json:"price_feed"`
}
