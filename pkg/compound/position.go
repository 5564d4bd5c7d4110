package compound

import (
	"lending/core"
	"lending/internal/compound"
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

// RealizePosition checkpoints pos against an already accrued pool: it folds the
// interest earned and owed since the last checkpoint into the principals and
// returns the reward pending on the deposit held over that period, time weighted.
//
// The pending reward must be paid (or the position discarded) before
// SettleRewardDebt resets the debt.
func RealizePosition(pos *core.UserPosition, pool *core.AssetPool, now int64) (*uint256.Int, error) {
	accrued, err := number.MulScale(pos.DepositAmount, pool.AccRewardPerShare)
	if err != nil {
		return nil, err
	}

	pending, err := compound.WeightedAmount(number.SubSat(accrued, pos.RewardDebt), pos.LastUpdateTime, now)
	if err != nil {
		return nil, err
	}

	// deposits round down and debts round up, in favour of the pool
	deposit, err := realizeInterest(pos.DepositAmount, pos.DepositIndex, pool.DepositIndex, number.MulDiv)
	if err != nil {
		return nil, err
	}

	borrow, err := realizeInterest(pos.BorrowAmount, pos.BorrowIndex, pool.BorrowIndex, number.MulDivUp)
	if err != nil {
		return nil, err
	}

	if !number.FitsU128(deposit) || !number.FitsU128(borrow) {
		return nil, core.ErrOverflow
	}

	pos.DepositAmount = deposit
	pos.BorrowAmount = borrow
	pos.DepositIndex = number.Clone(pool.DepositIndex)
	pos.BorrowIndex = number.Clone(pool.BorrowIndex)
	if now > pos.LastUpdateTime {
		pos.LastUpdateTime = now
	}

	return pending, nil
}

// principal * (current - checkpoint) / checkpoint
func realizeInterest(principal, checkpoint, current *uint256.Int, mulDiv func(x, y, d *uint256.Int) (*uint256.Int, error)) (*uint256.Int, error) {
	if principal.IsZero() || checkpoint.IsZero() || current.Cmp(checkpoint) <= 0 {
		return number.Clone(principal), nil
	}

	interest, err := mulDiv(principal, new(uint256.Int).Sub(current, checkpoint), checkpoint)
	if err != nil {
		return nil, err
	}

	return number.Add(principal, interest)
}

// SettleRewardDebt marks the whole accumulator as paid for the current deposit
func SettleRewardDebt(pos *core.UserPosition, pool *core.AssetPool) error {
	debt, err := number.MulScale(pos.DepositAmount, pool.AccRewardPerShare)
	if err != nil {
		return err
	}

	pos.RewardDebt = debt
	return nil
}

// CheckPosition rejects principals that no longer fit in 128 bits
func CheckPosition(pos *core.UserPosition) error {
	if !number.FitsU128(pos.DepositAmount) || !number.FitsU128(pos.BorrowAmount) {
		return core.ErrOverflow
	}

	return nil
}
