package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// UserPosition one user's deposit and borrow in one asset
type UserPosition struct {
	AssetID string `sql:"size:36;PRIMARY_KEY" json:"asset_id"`
	UserID  string `sql:"size:64;PRIMARY_KEY" json:"user_id"`
	// DepositAmount principal including interest realised at the last checkpoint
	DepositAmount *uint256.Int `sql:"type:varchar(80)" json:"deposit_amount"`
	BorrowAmount  *uint256.Int `sql:"type:varchar(80)" json:"borrow_amount"`
	// LastUpdateTime unix seconds of the last checkpoint
	LastUpdateTime int64        `json:"last_update_time"`
	RewardDebt     *uint256.Int `sql:"type:varchar(80)" json:"reward_debt"`
	BorrowIndex    *uint256.Int `sql:"type:varchar(80)" json:"borrow_index"`
	DepositIndex   *uint256.Int `sql:"type:varchar(80)" json:"deposit_index"`
	RewardsClaimed *uint256.Int `sql:"type:varchar(80)" json:"rewards_claimed"`
	Version        int64        `sql:"default:0" json:"version"`
	CreatedAt      time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// NewUserPosition empty position, indices unset until the first checkpoint
func NewUserPosition(assetID, userID string) *UserPosition {
	return &UserPosition{
		AssetID:        assetID,
		UserID:         userID,
		DepositAmount:  new(uint256.Int),
		BorrowAmount:   new(uint256.Int),
		RewardDebt:     new(uint256.Int),
		BorrowIndex:    new(uint256.Int),
		DepositIndex:   new(uint256.Int),
		RewardsClaimed: new(uint256.Int),
	}
}

// Clone deep copy
func (p *UserPosition) Clone() *UserPosition {
	c := *p
	c.DepositAmount = cloneInt(p.DepositAmount)
	c.BorrowAmount = cloneInt(p.BorrowAmount)
	c.RewardDebt = cloneInt(p.RewardDebt)
	c.BorrowIndex = cloneInt(p.BorrowIndex)
	c.DepositIndex = cloneInt(p.DepositIndex)
	c.RewardsClaimed = cloneInt(p.RewardsClaimed)
	return &c
}

// IsEmpty no deposit and no borrow
func (p *UserPosition) IsEmpty() bool {
	return p.DepositAmount.IsZero() && p.BorrowAmount.IsZero()
}

// IPositionStore position store interface
type IPositionStore interface {
	Find(ctx context.Context, assetID, userID string) (*UserPosition, bool, error)
	FindByUser(ctx context.Context, userID string) ([]*UserPosition, error)
	FindByAsset(ctx context.Context, assetID string) ([]*UserPosition, error)
}
