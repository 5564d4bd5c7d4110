package compound

import (
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

// WeightPeriod seconds for the reward weight to reach its cap
const WeightPeriod = 365 * 24 * 60 * 60

var weightPeriod = uint256.NewInt(WeightPeriod)

// WeightedAmount scales amount by a linear time weight from 1.0x at depositTime
// to 2.0x after WeightPeriod, capped there.
func WeightedAmount(amount *uint256.Int, depositTime, now int64) (*uint256.Int, error) {
	if now <= depositTime || amount.IsZero() {
		return number.Clone(amount), nil
	}

	elapsed := uint64(now - depositTime)
	if elapsed > WeightPeriod {
		elapsed = WeightPeriod
	}

	bonus, err := number.MulDiv(amount, uint256.NewInt(elapsed), weightPeriod)
	if err != nil {
		return nil, err
	}

	return number.Add(amount, bonus)
}
