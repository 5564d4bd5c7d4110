package compound

import (
	"errors"
	"time"

	"lending/core"
)

// BlockAt block number of t
func BlockAt(t time.Time, secondsPerBlock, genesis int64) (int64, error) {
	if secondsPerBlock <= 0 {
		return 0, errors.New("secondsPerBlock should not be less than or equal zero")
	}

	seconds := t.UTC().Unix() - genesis
	if seconds <= 0 {
		return 0, errors.New("invalid blocks")
	}

	return seconds / secondsPerBlock, nil
}

// RewardUnit reward clock reading of block for the configured unit
func RewardUnit(block *core.Block, unit string) uint64 {
	if unit == core.RewardUnitSecond {
		if block.Time < 0 {
			return 0
		}

		return uint64(block.Time)
	}

	return block.Number
}
