package compound

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

// SecondsPerYear seconds per year used to annualise rates
const SecondsPerYear = 31_536_000

var (
	// BaseRate borrow rate at zero utilization, 2%
	BaseRate = uint256.NewInt(2e16)
	// OptimalRate borrow rate at the kink, 8%
	OptimalRate = uint256.NewInt(8e16)
	// ExcessRate borrow rate at full utilization, 100%
	ExcessRate = uint256.NewInt(1e18)
	// OptimalUtilization kink, 80%
	OptimalUtilization = uint256.NewInt(8e17)
	// DepositsCeiling deposits above this cannot be scaled by 1e18
	DepositsCeiling = new(uint256.Int).Div(number.Max(), number.Scale)

	secondsPerYear = uint256.NewInt(SecondsPerYear)
	scaleSquared   = new(uint256.Int).Mul(number.Scale, number.Scale)
)

func checkTotals(borrows, deposits *uint256.Int) error {
	if deposits.Gt(DepositsCeiling) {
		return core.ErrDepositsAboveCeiling
	}

	if borrows.Gt(deposits) {
		return core.ErrBorrowsExceedDeposits
	}

	return nil
}

// Utilization utilization rate
// utilization = borrows * 1e18 / deposits
func Utilization(borrows, deposits *uint256.Int) (*uint256.Int, error) {
	if err := checkTotals(borrows, deposits); err != nil {
		return nil, err
	}

	if deposits.IsZero() {
		return number.Zero(), nil
	}

	return number.DivScale(borrows, deposits)
}

// BorrowRate annualised borrow rate for the given totals, a two slope curve
// 2% at 0, 8% at the 80% kink, 100% at full utilization.
func BorrowRate(borrows, deposits *uint256.Int) (*uint256.Int, error) {
	if err := checkTotals(borrows, deposits); err != nil {
		return nil, err
	}

	if deposits.IsZero() || borrows.IsZero() {
		return number.Clone(BaseRate), nil
	}

	u, err := number.DivScale(borrows, deposits)
	if err != nil {
		return nil, err
	}

	if u.Cmp(OptimalUtilization) <= 0 {
		slope := new(uint256.Int).Sub(OptimalRate, BaseRate)
		r, err := number.MulDiv(slope, u, OptimalUtilization)
		if err != nil {
			return nil, err
		}

		return r.Add(r, BaseRate), nil
	}

	excess := new(uint256.Int).Sub(u, OptimalUtilization)
	remaining := new(uint256.Int).Sub(number.Scale, OptimalUtilization)
	slope := new(uint256.Int).Sub(ExcessRate, OptimalRate)
	r, err := number.MulDiv(excess, slope, remaining)
	if err != nil {
		return nil, err
	}

	return r.Add(r, OptimalRate), nil
}

// DepositRate annualised rate paid to depositors
// deposit_rate = borrow_rate * utilization * (1 - reserve_factor) / 1e18^2
func DepositRate(borrows, deposits, reserveFactor *uint256.Int) (*uint256.Int, error) {
	if reserveFactor.Gt(number.Scale) {
		return nil, core.ErrInvalidAssetConfig
	}

	borrowRate, err := BorrowRate(borrows, deposits)
	if err != nil {
		return nil, err
	}

	u, err := Utilization(borrows, deposits)
	if err != nil {
		return nil, err
	}

	share, err := number.Mul(u, new(uint256.Int).Sub(number.Scale, reserveFactor))
	if err != nil {
		return nil, err
	}

	return number.MulDiv(borrowRate, share, scaleSquared)
}

// InterestAccrued simple interest of principal over seconds at an annual rate
// interest = principal * rate * seconds / (1e18 * seconds_per_year)
func InterestAccrued(principal, rate *uint256.Int, seconds uint64) (*uint256.Int, error) {
	if seconds == 0 || principal.IsZero() || rate.IsZero() {
		return number.Zero(), nil
	}

	// rate * seconds stays far below 2^256 for any rate that fits the curve,
	// but an absurd rate must still error rather than wrap.
	rt, err := number.Mul(rate, uint256.NewInt(seconds))
	if err != nil {
		return nil, err
	}

	denominator := new(uint256.Int).Mul(number.Scale, secondsPerYear)
	return number.MulDiv(principal, rt, denominator)
}
