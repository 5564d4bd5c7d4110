package compound

import (
	"lending/core"
	"lending/internal/compound"
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

// ReserveFactor reserve cut of borrow interest, 10%
var ReserveFactor = uint256.NewInt(1e17)

// NewAssetPool pool of a freshly registered asset
func NewAssetPool(assetID string, rewardPerUnit *uint256.Int, now int64, unit uint64) *core.AssetPool {
	pool := &core.AssetPool{
		AssetID:           assetID,
		TotalDeposits:     number.Zero(),
		TotalBorrows:      number.Zero(),
		TotalReserves:     number.Zero(),
		BorrowIndex:       number.One(),
		DepositIndex:      number.One(),
		CurrentRate:       number.Clone(compound.BaseRate),
		BorrowRate:        number.Clone(compound.BaseRate),
		DepositRate:       number.Zero(),
		ReserveFactor:     number.Clone(ReserveFactor),
		LastUpdateTime:    now,
		AccRewardPerShare: number.Zero(),
		RewardPerUnit:     number.Clone(rewardPerUnit),
		LastRewardUnit:    unit,
	}

	return pool
}

// Accrual what one AccruePool call added to the pool
type Accrual struct {
	// Emission reward emitted to the pool's depositors
	Emission *uint256.Int
	// Interest borrow interest, Reserve its cut kept by the protocol
	Interest *uint256.Int
	Reserve  *uint256.Int
}

// AccruePool brings pool up to (now, unit). Reward emission is credited to the
// accumulator from the deposits held before this call's interest, then borrow
// interest grows both indices and totals, then rates are refreshed.
//
// Calling it again at the same (now, unit) changes nothing.
func AccruePool(pool *core.AssetPool, now int64, unit uint64) (*Accrual, error) {
	accrual := &Accrual{
		Emission: number.Zero(),
		Interest: number.Zero(),
		Reserve:  number.Zero(),
	}

	deposits := number.Clone(pool.TotalDeposits)
	borrows := number.Clone(pool.TotalBorrows)

	if unit > pool.LastRewardUnit {
		if !deposits.IsZero() && !pool.RewardPerUnit.IsZero() {
			emission, err := number.Mul(uint256.NewInt(unit-pool.LastRewardUnit), pool.RewardPerUnit)
			if err != nil {
				return nil, err
			}

			delta, err := number.MulDiv(emission, number.Scale, deposits)
			if err != nil {
				return nil, err
			}

			if pool.AccRewardPerShare, err = number.Add(pool.AccRewardPerShare, delta); err != nil {
				return nil, err
			}

			accrual.Emission = emission
		}

		pool.LastRewardUnit = unit
	}

	if now > pool.LastUpdateTime {
		seconds := uint64(now - pool.LastUpdateTime)
		if !borrows.IsZero() && !pool.BorrowRate.IsZero() {
			if err := accrueInterest(pool, accrual, deposits, borrows, seconds); err != nil {
				return nil, err
			}
		}

		pool.LastUpdateTime = now
	}

	if err := RefreshRates(pool); err != nil {
		return nil, err
	}

	return accrual, nil
}

func accrueInterest(pool *core.AssetPool, accrual *Accrual, deposits, borrows *uint256.Int, seconds uint64) error {
	interest, err := compound.InterestAccrued(borrows, pool.BorrowRate, seconds)
	if err != nil {
		return err
	}

	if interest.IsZero() {
		return nil
	}

	// the index grows by at least the factor of the borrows it tracks, so
	// realized debts never fall short of the pool's total
	growth, err := number.MulDivUp(pool.BorrowIndex, interest, borrows)
	if err != nil {
		return err
	}

	borrowIndex, err := number.Add(pool.BorrowIndex, growth)
	if err != nil {
		return err
	}

	totalBorrows, err := number.Add(borrows, interest)
	if err != nil {
		return err
	}

	reserve, err := number.MulScale(interest, pool.ReserveFactor)
	if err != nil {
		return err
	}

	// deposits - borrows bounds the reserve so deposits keep covering borrows
	// at full utilization
	reserve = number.Min(reserve, number.SubSat(deposits, borrows))
	depositInterest := new(uint256.Int).Sub(interest, reserve)

	depositIndex := pool.DepositIndex
	totalDeposits := deposits
	if !deposits.IsZero() && !depositInterest.IsZero() {
		growth, err := number.MulDiv(pool.DepositIndex, depositInterest, deposits)
		if err != nil {
			return err
		}

		if depositIndex, err = number.Add(pool.DepositIndex, growth); err != nil {
			return err
		}

		if totalDeposits, err = number.Add(deposits, depositInterest); err != nil {
			return err
		}
	}

	totalReserves, err := number.Add(pool.TotalReserves, reserve)
	if err != nil {
		return err
	}

	pool.BorrowIndex = borrowIndex
	pool.DepositIndex = depositIndex
	pool.TotalBorrows = totalBorrows
	pool.TotalDeposits = totalDeposits
	pool.TotalReserves = totalReserves

	accrual.Interest = interest
	accrual.Reserve = reserve
	return nil
}

// RefreshRates recomputes the pool rates for its current totals
func RefreshRates(pool *core.AssetPool) error {
	borrowRate, err := compound.BorrowRate(pool.TotalBorrows, pool.TotalDeposits)
	if err != nil {
		return err
	}

	depositRate, err := compound.DepositRate(pool.TotalBorrows, pool.TotalDeposits, pool.ReserveFactor)
	if err != nil {
		return err
	}

	pool.BorrowRate = borrowRate
	pool.CurrentRate = number.Clone(borrowRate)
	pool.DepositRate = depositRate
	return nil
}
