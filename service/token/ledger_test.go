package token

import (
	"context"
	"testing"

	"lending/core"
	"lending/store/memory"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	l := New(memory.NewBalanceStore(), "pool", "REWARD")

	require.NoError(t, l.Faucet(ctx, "usdc", "alice", uint256.NewInt(100)))

	err := l.TransferFrom(ctx, "usdc", "alice", "pool", uint256.NewInt(101))
	assert.ErrorIs(t, err, core.ErrTransferFailed)

	require.NoError(t, l.TransferFrom(ctx, "usdc", "alice", "pool", uint256.NewInt(60)))
	require.NoError(t, l.Transfer(ctx, "usdc", "bob", uint256.NewInt(10)))

	for holder, want := range map[string]uint64{"alice": 40, "pool": 50, "bob": 10} {
		b, err := l.Balance(ctx, "usdc", holder)
		require.NoError(t, err)
		assert.Equal(t, want, b.Uint64(), holder)
	}

	require.NoError(t, l.Mint(ctx, "alice", uint256.NewInt(5)))
	r, _ := l.Balance(ctx, l.RewardAsset(), "alice")
	assert.Equal(t, uint64(5), r.Uint64())

	assert.ErrorIs(t, l.Burn(ctx, "alice", uint256.NewInt(6)), core.ErrMintFailed)
	require.NoError(t, l.Burn(ctx, "alice", uint256.NewInt(5)))
	assert.Equal(t, "pool", l.Pool())
}
