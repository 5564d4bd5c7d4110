package views

import (
	"lending/core"
	"lending/internal/compound"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// Pool pool view, amounts in human units and rates as fractions
type Pool struct {
	*core.AssetPool
	Symbol      string          `json:"symbol"`
	Decimals    uint8           `json:"decimals"`
	IsSupported bool            `json:"is_supported"`
	Deposits    decimal.Decimal `json:"deposits"`
	Borrows     decimal.Decimal `json:"borrows"`
	Reserves    decimal.Decimal `json:"reserves"`
	Utilization decimal.Decimal `json:"utilization"`
	SupplyAPY   decimal.Decimal `json:"supply_apy"`
	BorrowAPY   decimal.Decimal `json:"borrow_apy"`
}

// PoolView pool view of a pool and its asset
func PoolView(pool *core.AssetPool, asset *core.AssetConfig) Pool {
	decimals := int32(asset.Decimals)

	utilization, err := compound.Utilization(pool.TotalBorrows, pool.TotalDeposits)
	if err != nil {
		utilization = number.Zero()
	}

	return Pool{
		AssetPool:   pool,
		Symbol:      asset.Symbol,
		Decimals:    asset.Decimals,
		IsSupported: asset.IsSupported,
		Deposits:    number.ToDecimal(pool.TotalDeposits, decimals),
		Borrows:     number.ToDecimal(pool.TotalBorrows, decimals),
		Reserves:    number.ToDecimal(asset.Reserves, decimals),
		Utilization: number.ToDecimal(utilization, 18),
		SupplyAPY:   number.ToDecimal(pool.DepositRate, 18),
		BorrowAPY:   number.ToDecimal(pool.BorrowRate, 18),
	}
}
