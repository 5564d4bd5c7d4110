package asset

import (
	"context"
	"testing"

	"lending/core"
	"lending/pkg/number"
	"lending/store/memory"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	core.IAssetStore
	finds int
}

func (s *countingStore) Find(ctx context.Context, assetID string) (*core.AssetConfig, bool, error) {
	s.finds++
	return s.IAssetStore.Find(ctx, assetID)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{IAssetStore: memory.NewAssetStore()}
	s := Cache(inner)

	_, isRecordNotFound, err := s.Find(ctx, "usdc")
	require.NoError(t, err)
	assert.True(t, isRecordNotFound)

	require.NoError(t, s.Save(ctx, &core.AssetConfig{
		AssetID:  "usdc",
		Decimals: 6,
		Reserves: number.Zero(),
	}))

	a, isRecordNotFound, err := s.Find(ctx, "usdc")
	require.NoError(t, err)
	require.False(t, isRecordNotFound)
	assert.Equal(t, uint8(6), a.Decimals)

	finds := inner.finds
	a.Decimals = 18
	b, _, _ := s.Find(ctx, "usdc")
	assert.Equal(t, finds, inner.finds)
	assert.Equal(t, uint8(6), b.Decimals)

	require.NoError(t, s.AddReserves(ctx, "usdc", uint256.NewInt(7)))
	c, _, _ := s.Find(ctx, "usdc")
	assert.Equal(t, uint64(7), c.Reserves.Uint64())
}
