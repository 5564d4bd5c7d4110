package core

import (
	"github.com/holiman/uint256"
)

// Holding one asset of an account with its USD price (1e18 scaled)
type Holding struct {
	Asset   *AssetConfig
	Price   *uint256.Int
	Deposit *uint256.Int
	Borrow  *uint256.Int
}

// AccountValues USD valuation of an account, all 1e18 scaled
type AccountValues struct {
	DepositValue *uint256.Int `json:"deposit_value"`
	BorrowValue  *uint256.Int `json:"borrow_value"`
	// CollateralValue deposits discounted by their collateral factors
	CollateralValue *uint256.Int `json:"collateral_value"`
	// BorrowLimit collateral value further discounted by borrow factors
	BorrowLimit *uint256.Int `json:"borrow_limit"`
	// HealthFactor collateral value over borrow value, max uint256 without debt
	HealthFactor *uint256.Int `json:"health_factor"`
}

// IsSolvent borrow value within the borrow limit
func (v *AccountValues) IsSolvent() bool {
	return v.BorrowValue.Cmp(v.BorrowLimit) <= 0
}

// Account positions of a user with their valuation
type Account struct {
	UserID    string          `json:"user_id"`
	Positions []*UserPosition `json:"positions"`
	Values    *AccountValues  `json:"values"`
}

// BorrowLimit borrow capacity contributed by one asset and by the whole account
type BorrowLimit struct {
	AssetID string       `json:"asset_id"`
	Asset   *uint256.Int `json:"asset"`
	Total   *uint256.Int `json:"total"`
}

// IAccountService account valuation
type IAccountService interface {
	// Value USD value of amount, rounded down
	Value(asset *AssetConfig, amount, price *uint256.Int) (*uint256.Int, error)
	// DebtValue USD value of a debt, rounded up
	DebtValue(asset *AssetConfig, amount, price *uint256.Int) (*uint256.Int, error)
	// Amount asset units worth value, rounded down
	Amount(asset *AssetConfig, value, price *uint256.Int) (*uint256.Int, error)
	BorrowLimit(h *Holding) (*uint256.Int, error)
	Evaluate(holdings []*Holding) (*AccountValues, error)
}
