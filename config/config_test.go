package config

import (
	"testing"
	"time"

	"lending/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var cfg core.Config
	defaultApp(&cfg)
	defaultPriceOracle(&cfg)

	assert.Equal(t, int64(15), cfg.App.SecondsPerBlock)
	assert.Equal(t, core.RewardUnitBlock, cfg.App.RewardUnit)

	cf, err := CloseFactor(&cfg)
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", cf.Dec())

	age, err := MaxPriceAge(&cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, age)

	reward, err := RewardPerUnit(&cfg)
	require.NoError(t, err)
	assert.True(t, reward.IsZero())

	assert.Equal(t, 10*time.Second, OracleTimeout(&cfg))
	assert.Equal(t, 30*time.Second, OracleCacheTTL(&cfg))
}

func TestCloseFactorRange(t *testing.T) {
	cfg := core.Config{App: core.App{CloseFactor: "1.5"}}
	_, err := CloseFactor(&cfg)
	assert.Error(t, err)

	cfg.App.CloseFactor = "0"
	_, err = CloseFactor(&cfg)
	assert.Error(t, err)
}

func TestAssetConfig(t *testing.T) {
	a, err := AssetConfig(core.AssetOption{
		AssetID:          "btc",
		Symbol:           "BTC",
		Decimals:         8,
		CollateralFactor: "0.75",
		BorrowFactor:     "0.9",
		LiquidationBonus: "0.05",
	})
	require.NoError(t, err)
	assert.True(t, a.IsSupported)
	assert.Equal(t, "750000000000000000", a.CollateralFactor.Dec())
	assert.Equal(t, "900000000000000000", a.BorrowFactor.Dec())
	assert.Equal(t, "50000000000000000", a.LiquidationBonus.Dec())
	assert.Equal(t, "btc", a.Feed())

	_, err = AssetConfig(core.AssetOption{AssetID: "btc", CollateralFactor: "x"})
	assert.Error(t, err)
}
