package block

import (
	"context"
	"sync"

	"lending/core"
)

// Manual clock driven by hand, for tests and replays
type Manual struct {
	mux   sync.Mutex
	block core.Block
}

// NewManual new manual clock
func NewManual(number uint64, t int64) *Manual {
	return &Manual{block: core.Block{Number: number, Time: t}}
}

// CurrentBlock current block
func (m *Manual) CurrentBlock(ctx context.Context) (*core.Block, error) {
	m.mux.Lock()
	defer m.mux.Unlock()

	b := m.block
	return &b, nil
}

// Advance moves the clock forward
func (m *Manual) Advance(blocks uint64, seconds int64) {
	m.mux.Lock()
	defer m.mux.Unlock()

	m.block.Number += blocks
	m.block.Time += seconds
}

// Set jumps to the given block
func (m *Manual) Set(number uint64, t int64) {
	m.mux.Lock()
	defer m.mux.Unlock()

	m.block = core.Block{Number: number, Time: t}
}
