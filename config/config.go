package config

import (
	"fmt"
	"time"

	"lending/core"
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

const (
	defaultSecondsPerBlock = 15
	defaultCloseFactor     = "0.5"
	defaultMaxPriceAge     = time.Hour
	defaultPoolAccount     = "pool"
	defaultRewardAsset     = "REWARD"
	defaultOracleTimeout   = 10 * time.Second
	defaultOracleCacheTTL  = 30 * time.Second
)

func defaultApp(cfg *core.Config) {
	app := &cfg.App
	if app.SecondsPerBlock <= 0 {
		app.SecondsPerBlock = defaultSecondsPerBlock
	}

	if app.RewardUnit == "" {
		app.RewardUnit = core.RewardUnitBlock
	}

	if app.RewardPerUnit == "" {
		app.RewardPerUnit = "0"
	}

	if app.CloseFactor == "" {
		app.CloseFactor = defaultCloseFactor
	}

	if app.MaxPriceAge == "" {
		app.MaxPriceAge = defaultMaxPriceAge.String()
	}

	if app.PoolAccount == "" {
		app.PoolAccount = defaultPoolAccount
	}

	if app.RewardAsset == "" {
		app.RewardAsset = defaultRewardAsset
	}
}

func defaultPriceOracle(cfg *core.Config) {
	if cfg.PriceOracle.Timeout == "" {
		cfg.PriceOracle.Timeout = defaultOracleTimeout.String()
	}

	if cfg.PriceOracle.CacheTTL == "" {
		cfg.PriceOracle.CacheTTL = defaultOracleCacheTTL.String()
	}
}

// RewardPerUnit parsed reward emission per unit
func RewardPerUnit(cfg *core.Config) (*uint256.Int, error) {
	v, err := number.ParseAmount(cfg.App.RewardPerUnit, 0)
	if err != nil {
		return nil, fmt.Errorf("app.reward_per_unit: %w", err)
	}

	return v, nil
}

// CloseFactor parsed close factor, 1e18 scaled within (0, 1e18]
func CloseFactor(cfg *core.Config) (*uint256.Int, error) {
	v, err := number.Rate(cfg.App.CloseFactor)
	if err != nil {
		return nil, fmt.Errorf("app.close_factor: %w", err)
	}

	if v.IsZero() || v.Gt(number.Scale) {
		return nil, fmt.Errorf("app.close_factor: %s out of range", cfg.App.CloseFactor)
	}

	return v, nil
}

// MaxPriceAge parsed max price age
func MaxPriceAge(cfg *core.Config) (time.Duration, error) {
	return time.ParseDuration(cfg.App.MaxPriceAge)
}

// OracleTimeout parsed http oracle timeout
func OracleTimeout(cfg *core.Config) time.Duration {
	if d, err := time.ParseDuration(cfg.PriceOracle.Timeout); err == nil && d > 0 {
		return d
	}

	return defaultOracleTimeout
}

// OracleCacheTTL parsed price cache ttl
func OracleCacheTTL(cfg *core.Config) time.Duration {
	if d, err := time.ParseDuration(cfg.PriceOracle.CacheTTL); err == nil && d >= 0 {
		return d
	}

	return defaultOracleCacheTTL
}

// AssetConfig converts a bootstrap asset option into a registry entry
func AssetConfig(opt core.AssetOption) (*core.AssetConfig, error) {
	parse := func(name, v string) (*uint256.Int, error) {
		if v == "" {
			return number.Zero(), nil
		}

		r, err := number.Rate(v)
		if err != nil {
			return nil, fmt.Errorf("asset %s %s: %w", opt.AssetID, name, err)
		}

		return r, nil
	}

	cf, err := parse("collateral_factor", opt.CollateralFactor)
	if err != nil {
		return nil, err
	}

	bf, err := parse("borrow_factor", opt.BorrowFactor)
	if err != nil {
		return nil, err
	}

	bonus, err := parse("liquidation_bonus", opt.LiquidationBonus)
	if err != nil {
		return nil, err
	}

	return &core.AssetConfig{
		AssetID:          opt.AssetID,
		Symbol:           opt.Symbol,
		Name:             opt.Name,
		Decimals:         opt.Decimals,
		Icon:             opt.Icon,
		IsSupported:      true,
		CollateralFactor: cf,
		BorrowFactor:     bf,
		LiquidationBonus: bonus,
		PriceFeed:        opt.PriceFeed,
		Reserves:         number.Zero(),
	}, nil
}
