package state

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"onchaindice/internal/types"
	"onchaindice/internal/vrf"
)

func TestDeriveAddress_DeterministicAndOffCurve(t *testing.T) {
	a1, b1, err := DeriveAddress(types.TreasurySeed, types.ProgramID)
	require.NoError(t, err)
	a2, b2, err := DeriveAddress(types.TreasurySeed, types.ProgramID)
	require.NoError(t, err)
	require.Equal(t, a1, a2)
	require.Equal(t, b1, b2)

	raw, err := hex.DecodeString(a1)
	require.NoError(t, err)
	require.Len(t, raw, 32)
	require.False(t, vrf.IsCanonicalPoint(raw))

	other, _, err := DeriveAddress("vault", types.ProgramID)
	require.NoError(t, err)
	require.NotEqual(t, a1, other)
}

func TestNewTreasury(t *testing.T) {
	_, err := NewTreasury("")
	require.ErrorIs(t, err, types.ErrInvalidRequest)

	tr, err := NewTreasury("house")
	require.NoError(t, err)
	require.Equal(t, "house", tr.Authority)
	require.NotEmpty(t, tr.Address)
	require.Zero(t, tr.Balance)
}

func TestTreasury_ReserveAndDisburse(t *testing.T) {
	tr := &Treasury{Balance: 100}

	require.NoError(t, tr.Reserve(60))
	require.Equal(t, uint64(40), tr.Available())
	require.ErrorIs(t, tr.Reserve(41), types.ErrInsufficientTreasury)

	// Reserved funds are not payable to anyone else.
	require.ErrorIs(t, tr.Disburse(41), types.ErrInsufficientTreasury)

	require.NoError(t, tr.Release(60))
	require.NoError(t, tr.Disburse(100))
	require.Zero(t, tr.Balance)

	require.ErrorIs(t, tr.Release(1), types.ErrArithmeticOverflow)
}

func TestTreasury_DepositOverflow(t *testing.T) {
	tr := &Treasury{Balance: ^uint64(0)}
	require.ErrorIs(t, tr.Deposit(1), types.ErrArithmeticOverflow)
	require.Equal(t, ^uint64(0), tr.Balance)
}

func TestTreasury_WithdrawKeepsFloor(t *testing.T) {
	tr := &Treasury{Balance: 100, Reserved: 30}

	require.ErrorIs(t, tr.Withdraw(71, 0), types.ErrInsufficientTreasury)
	require.ErrorIs(t, tr.Withdraw(61, 10), types.ErrInsufficientTreasury)
	require.ErrorIs(t, tr.Withdraw(200, 0), types.ErrInsufficientTreasury)

	require.NoError(t, tr.Withdraw(60, 10))
	require.Equal(t, uint64(40), tr.Balance)
}
