package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickfund/backend/internal/models"
)

var (
	alice = models.Address(strings.Repeat("a", 64))
	bob   = models.Address(strings.Repeat("b", 64))
)

func TestMemoryTransfer(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()

	require.NoError(t, l.Mint(ctx, alice, 100))
	require.NoError(t, l.Transfer(ctx, alice, bob, 40))

	aliceBal, err := l.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), aliceBal)

	bobBal, err := l.Balance(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), bobBal)
}

func TestMemoryTransferInsufficient(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()

	require.NoError(t, l.Mint(ctx, alice, 10))

	err := l.Transfer(ctx, alice, bob, 11)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing moved.
	aliceBal, _ := l.Balance(ctx, alice)
	bobBal, _ := l.Balance(ctx, bob)
	assert.Equal(t, uint64(10), aliceBal)
	assert.Equal(t, uint64(0), bobBal)
}

func TestMemoryUnknownAddressIsZero(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()

	bal, err := l.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bal)

	err = l.Transfer(ctx, alice, bob, 1)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestMemoryConservation(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()

	require.NoError(t, l.Mint(ctx, alice, 500))
	require.NoError(t, l.Mint(ctx, bob, 250))

	require.NoError(t, l.Transfer(ctx, alice, bob, 123))
	require.NoError(t, l.Transfer(ctx, bob, alice, 7))
	require.NoError(t, l.Transfer(ctx, alice, alice, 50))

	total, err := l.TotalBalance(ctx)
	require.NoError(t, err)

	minted, err := l.MintedTotal(ctx)
	require.NoError(t, err)

	assert.Equal(t, minted, total, "transfers must neither create nor destroy value")
	assert.Equal(t, uint64(750), total)
}
