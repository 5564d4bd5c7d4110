package views

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Account account view, values in USD
type Account struct {
	UserID          string          `json:"user_id"`
	Positions       []Position      `json:"positions"`
	DepositValue    decimal.Decimal `json:"deposit_value"`
	BorrowValue     decimal.Decimal `json:"borrow_value"`
	CollateralValue decimal.Decimal `json:"collateral_value"`
	BorrowLimit     decimal.Decimal `json:"borrow_limit"`
	// HealthFactor empty when the account has no debt
	HealthFactor string `json:"health_factor,omitempty"`
}

// AccountView account view, positions are rendered by the caller
func AccountView(account *core.Account, positions []Position) Account {
	v := account.Values
	view := Account{
		UserID:          account.UserID,
		Positions:       positions,
		DepositValue:    USD(v.DepositValue),
		BorrowValue:     USD(v.BorrowValue),
		CollateralValue: USD(v.CollateralValue),
		BorrowLimit:     USD(v.BorrowLimit),
	}

	if !v.BorrowValue.IsZero() {
		view.HealthFactor = USD(v.HealthFactor).String()
	}

	return view
}

// Totals protocol wide values
type Totals struct {
	DepositValue decimal.Decimal `json:"deposit_value"`
	BorrowValue  decimal.Decimal `json:"borrow_value"`
}

// Price asset price
type Price struct {
	AssetID string          `json:"asset_id"`
	Price   decimal.Decimal `json:"price"`
}

// USD 1e18 scaled value as decimal
func USD(v *uint256.Int) decimal.Decimal {
	return number.ToDecimal(v, 18)
}
