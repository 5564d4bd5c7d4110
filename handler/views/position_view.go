package views

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// Position position view
type Position struct {
	*core.UserPosition
	Deposit decimal.Decimal `json:"deposit"`
	Borrow  decimal.Decimal `json:"borrow"`
	// PendingReward reward token base units claimable now
	PendingReward string `json:"pending_reward"`
}

// PositionView position view with the pending reward
func PositionView(pos *core.UserPosition, asset *core.AssetConfig, pending string) Position {
	decimals := int32(asset.Decimals)
	return Position{
		UserPosition:  pos,
		Deposit:       number.ToDecimal(pos.DepositAmount, decimals),
		Borrow:        number.ToDecimal(pos.BorrowAmount, decimals),
		PendingReward: pending,
	}
}
