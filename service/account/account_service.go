package account

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

type accountService struct{}

// New new account service
func New() core.IAccountService {
	return &accountService{}
}

// Value value = amount * price / 10^decimals
func (s *accountService) Value(asset *core.AssetConfig, amount, price *uint256.Int) (*uint256.Int, error) {
	if amount.IsZero() {
		return number.Zero(), nil
	}

	return number.MulDiv(amount, price, number.Pow10(asset.Decimals))
}

// DebtValue like Value but rounded against the borrower
func (s *accountService) DebtValue(asset *core.AssetConfig, amount, price *uint256.Int) (*uint256.Int, error) {
	if amount.IsZero() {
		return number.Zero(), nil
	}

	return number.MulDivUp(amount, price, number.Pow10(asset.Decimals))
}

// Amount amount = value * 10^decimals / price
func (s *accountService) Amount(asset *core.AssetConfig, value, price *uint256.Int) (*uint256.Int, error) {
	if price.IsZero() {
		return nil, core.ErrInvalidPrice
	}

	return number.MulDiv(value, number.Pow10(asset.Decimals), price)
}

// BorrowLimit limit = deposit_value * collateral_factor * borrow_factor
func (s *accountService) BorrowLimit(h *core.Holding) (*uint256.Int, error) {
	collateral, err := s.collateralValue(h)
	if err != nil {
		return nil, err
	}

	return number.MulScale(collateral, h.Asset.BorrowFactor)
}

func (s *accountService) collateralValue(h *core.Holding) (*uint256.Int, error) {
	value, err := s.Value(h.Asset, h.Deposit, h.Price)
	if err != nil {
		return nil, err
	}

	return number.MulScale(value, h.Asset.CollateralFactor)
}

// Evaluate sums the account over its holdings
func (s *accountService) Evaluate(holdings []*core.Holding) (*core.AccountValues, error) {
	values := &core.AccountValues{
		DepositValue:    number.Zero(),
		BorrowValue:     number.Zero(),
		CollateralValue: number.Zero(),
		BorrowLimit:     number.Zero(),
	}

	for _, h := range holdings {
		deposit, err := s.Value(h.Asset, h.Deposit, h.Price)
		if err != nil {
			return nil, err
		}

		borrow, err := s.DebtValue(h.Asset, h.Borrow, h.Price)
		if err != nil {
			return nil, err
		}

		collateral, err := s.collateralValue(h)
		if err != nil {
			return nil, err
		}

		limit, err := number.MulScale(collateral, h.Asset.BorrowFactor)
		if err != nil {
			return nil, err
		}

		for _, sum := range []struct{ total, v *uint256.Int }{
			{values.DepositValue, deposit},
			{values.BorrowValue, borrow},
			{values.CollateralValue, collateral},
			{values.BorrowLimit, limit},
		} {
			if _, overflow := sum.total.AddOverflow(sum.total, sum.v); overflow {
				return nil, core.ErrOverflow
			}
		}
	}

	hf, err := HealthFactor(values.CollateralValue, values.BorrowValue)
	if err != nil {
		return nil, err
	}

	values.HealthFactor = hf
	return values, nil
}

// HealthFactor collateral / debt, 1e18 scaled, max uint256 when debt is zero
func HealthFactor(collateral, debt *uint256.Int) (*uint256.Int, error) {
	if debt.IsZero() {
		return number.Max(), nil
	}

	return number.DivScale(collateral, debt)
}
