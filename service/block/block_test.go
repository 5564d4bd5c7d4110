package block

import (
	"context"
	"testing"
	"time"

	"lending/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentBlock(t *testing.T) {
	cfg := &core.Config{App: core.App{Genesis: time.Now().Add(-time.Hour).Unix(), SecondsPerBlock: 15}}
	b, err := New(cfg).CurrentBlock(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 240, float64(b.Number), 1)

	cfg.App.Genesis = time.Now().Add(time.Hour).Unix()
	_, err = New(cfg).CurrentBlock(context.Background())
	assert.Error(t, err)
}

func TestManual(t *testing.T) {
	m := NewManual(1, 100)
	m.Advance(2, 30)

	b, err := m.CurrentBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), b.Number)
	assert.Equal(t, int64(130), b.Time)

	m.Set(10, 50)
	b, _ = m.CurrentBlock(context.Background())
	assert.Equal(t, uint64(10), b.Number)
}
