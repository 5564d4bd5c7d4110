package core

import (
	"context"
)

const (
	// RewardUnitBlock reward emission counted in blocks
	RewardUnitBlock = "block"
	// RewardUnitSecond reward emission counted in seconds
	RewardUnitSecond = "second"
)

// Block environment clock: a monotonic sequence number and unix time
type Block struct {
	Number uint64 `json:"number"`
	Time   int64  `json:"time"`
}

// IBlockService block service interface
type IBlockService interface {
	CurrentBlock(ctx context.Context) (*Block, error)
}
