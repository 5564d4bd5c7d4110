package core

// ActionType engine action recorded in the transaction log
type ActionType int

const (
	_ ActionType = iota
	// ActionTypeDeposit deposit
	ActionTypeDeposit
	// ActionTypeWithdraw withdraw
	ActionTypeWithdraw
	// ActionTypeBorrow borrow
	ActionTypeBorrow
	// ActionTypeRepay repay
	ActionTypeRepay
	// ActionTypeClaimReward claim reward
	ActionTypeClaimReward
	// ActionTypeLiquidate liquidate
	ActionTypeLiquidate
	// ActionTypeAddAsset add asset
	ActionTypeAddAsset
	// ActionTypePause pause
	ActionTypePause
	// ActionTypeUnpause unpause
	ActionTypeUnpause
)

var actionNames = map[ActionType]string{
	ActionTypeDeposit:     "deposit",
	ActionTypeWithdraw:    "withdraw",
	ActionTypeBorrow:      "borrow",
	ActionTypeRepay:       "repay",
	ActionTypeClaimReward: "claim_reward",
	ActionTypeLiquidate:   "liquidate",
	ActionTypeAddAsset:    "add_asset",
	ActionTypePause:       "pause",
	ActionTypeUnpause:     "unpause",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return "unknown"
}

// IsMutating reports whether the action changes pools or positions
func (a ActionType) IsMutating() bool {
	switch a {
	case ActionTypeDeposit, ActionTypeWithdraw, ActionTypeBorrow, ActionTypeRepay, ActionTypeClaimReward, ActionTypeLiquidate:
		return true
	}

	return false
}
