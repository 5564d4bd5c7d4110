package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// AssetPool the shared ledger of one asset: deposit and borrow totals, interest
// indices, current rates and the reward accumulator.
type AssetPool struct {
	AssetID       string       `sql:"size:36;PRIMARY_KEY" json:"asset_id"`
	TotalDeposits *uint256.Int `sql:"type:varchar(80)" json:"total_deposits"`
	TotalBorrows  *uint256.Int `sql:"type:varchar(80)" json:"total_borrows"`
	// TotalReserves reserve cut forwarded to the registry so far
	TotalReserves *uint256.Int `sql:"type:varchar(80)" json:"total_reserves"`
	BorrowIndex   *uint256.Int `sql:"type:varchar(80)" json:"borrow_index"`
	DepositIndex  *uint256.Int `sql:"type:varchar(80)" json:"deposit_index"`
	CurrentRate   *uint256.Int `sql:"type:varchar(80)" json:"current_rate"`
	BorrowRate    *uint256.Int `sql:"type:varchar(80)" json:"borrow_rate"`
	DepositRate   *uint256.Int `sql:"type:varchar(80)" json:"deposit_rate"`
	ReserveFactor *uint256.Int `sql:"type:varchar(80)" json:"reserve_factor"`
	// LastUpdateTime unix seconds of the last interest accrual
	LastUpdateTime    int64        `json:"last_update_time"`
	AccRewardPerShare *uint256.Int `sql:"type:varchar(80)" json:"acc_reward_per_share"`
	RewardPerUnit     *uint256.Int `sql:"type:varchar(80)" json:"reward_per_unit"`
	// LastRewardUnit reward clock (block number or seconds) of the last emission
	LastRewardUnit uint64    `json:"last_reward_unit"`
	Version        int64     `sql:"default:0" json:"version"`
	CreatedAt      time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Clone deep copy
func (p *AssetPool) Clone() *AssetPool {
	c := *p
	c.TotalDeposits = cloneInt(p.TotalDeposits)
	c.TotalBorrows = cloneInt(p.TotalBorrows)
	c.TotalReserves = cloneInt(p.TotalReserves)
	c.BorrowIndex = cloneInt(p.BorrowIndex)
	c.DepositIndex = cloneInt(p.DepositIndex)
	c.CurrentRate = cloneInt(p.CurrentRate)
	c.BorrowRate = cloneInt(p.BorrowRate)
	c.DepositRate = cloneInt(p.DepositRate)
	c.ReserveFactor = cloneInt(p.ReserveFactor)
	c.AccRewardPerShare = cloneInt(p.AccRewardPerShare)
	c.RewardPerUnit = cloneInt(p.RewardPerUnit)
	return &c
}

// IPoolStore pool store interface
type IPoolStore interface {
	Find(ctx context.Context, assetID string) (*AssetPool, bool, error)
	All(ctx context.Context) ([]*AssetPool, error)
}

func cloneInt(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}

	return new(uint256.Int).Set(v)
}
