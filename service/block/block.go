package block

import (
	"context"
	"time"

	"lending/core"
	"lending/internal/compound"
)

type service struct {
	config *core.Config
}

// New new block service, blocks are counted from the genesis time
func New(config *core.Config) core.IBlockService {
	return &service{
		config: config,
	}
}

// CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (*core.Block, error) {
	now := time.Now()
	number, e := compound.BlockAt(now, s.config.App.SecondsPerBlock, s.config.App.Genesis)
	if e != nil {
		return nil, e
	}

	return &core.Block{Number: uint64(number), Time: now.Unix()}, nil
}
