package randomness

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"onchaindice/internal/state"
	"onchaindice/internal/types"
	"onchaindice/internal/vrf"
)

const window = int64(10)

func testOracle(t *testing.T) (*state.Oracle, vrf.PrivateKey) {
	t.Helper()
	k, err := vrf.NewPrivateKey(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	return &state.Oracle{ID: "orc", PubKey: k.Public().Bytes()}, k
}

func committedAccount(t *testing.T, height int64) *state.RandomnessAccount {
	t.Helper()
	acct := &state.RandomnessAccount{ID: 1, Oracle: "orc", Requester: "alice", Status: state.RandomnessRequested}
	require.NoError(t, Commit(acct, height, height+window))
	return acct
}

func reveal(t *testing.T, acct *state.RandomnessAccount, o *state.Oracle, k vrf.PrivateKey, height int64) {
	t.Helper()
	p, err := k.Prove(acct.Seed)
	require.NoError(t, err)
	require.NoError(t, Reveal(acct, o, p.Output(), p.Bytes(), height))
}

func TestCommit_FixesSeedAndWindow(t *testing.T) {
	acct := committedAccount(t, 5)
	require.Equal(t, state.RandomnessCommitted, acct.Status)
	require.Equal(t, int64(15), acct.ExpiryHeight)
	require.Len(t, acct.Seed, 32)

	require.ErrorIs(t, Commit(acct, 6, 6+window), types.ErrCommitmentAlreadyBound)

	// The same account committed at another height gets another seed.
	other := &state.RandomnessAccount{ID: 1, Oracle: "orc", Requester: "alice", Status: state.RandomnessRequested}
	require.NoError(t, Commit(other, 6, 6+window))

	bad := &state.RandomnessAccount{ID: 3, Status: state.RandomnessRequested}
	require.ErrorIs(t, Commit(bad, 6, 5), types.ErrInvalidRequest)
	require.NotEqual(t, acct.Seed, other.Seed)
}

func TestBind(t *testing.T) {
	requested := &state.RandomnessAccount{ID: 2, Status: state.RandomnessRequested}
	require.ErrorIs(t, Bind(requested, "alice/1", 1), types.ErrRandomnessNotCommitted)

	acct := committedAccount(t, 5)
	require.ErrorIs(t, Bind(acct, "alice/1", 16), types.ErrCommitmentExpired)
	require.NoError(t, Bind(acct, "alice/1", 6))
	require.ErrorIs(t, Bind(acct, "alice/2", 6), types.ErrCommitmentAlreadyBound)

	require.Equal(t, int64(6), acct.BindHeight)

	stale := committedAccount(t, 5)
	stale.Status = state.RandomnessRevealed
	require.ErrorIs(t, Bind(stale, "alice/3", 7), types.ErrRandomnessRevealed)
	require.Empty(t, stale.BoundBet)
}

func TestConsume_PendingThenReady(t *testing.T) {
	o, k := testOracle(t)
	acct := committedAccount(t, 5)
	require.NoError(t, Bind(acct, "alice/1", 5))

	_, err := Consume(acct, "alice/1", 6)
	require.ErrorIs(t, err, types.ErrRevealNotReady)
	require.True(t, types.IsRetryable(err))
	require.Equal(t, StatusPending, StatusAt(acct, 6))

	reveal(t, acct, o, k, 7)
	require.Equal(t, StatusReady, StatusAt(acct, 7))

	_, err = Consume(acct, "bob/1", 8)
	require.ErrorIs(t, err, types.ErrCommitmentMismatch)

	// A revealed value settles even after the window closes.
	v, err := Consume(acct, "alice/1", 100)
	require.NoError(t, err)
	require.Equal(t, acct.Value, v)
	require.Equal(t, StatusConsumed, StatusAt(acct, 100))

	_, err = Consume(acct, "alice/1", 101)
	require.ErrorIs(t, err, types.ErrCommitmentConsumed)
}

func TestConsume_ExpiredWithoutReveal(t *testing.T) {
	acct := committedAccount(t, 5)
	require.NoError(t, Bind(acct, "alice/1", 5))

	_, err := Consume(acct, "alice/1", 15)
	require.ErrorIs(t, err, types.ErrRevealNotReady)

	_, err = Consume(acct, "alice/1", 16)
	require.ErrorIs(t, err, types.ErrCommitmentExpired)
	require.Equal(t, StatusExpired, StatusAt(acct, 16))
}

func TestExpire(t *testing.T) {
	o, k := testOracle(t)

	acct := committedAccount(t, 5)
	require.NoError(t, Bind(acct, "alice/1", 5))
	require.ErrorIs(t, Expire(acct, "alice/1", 15), types.ErrCommitmentNotExpired)
	require.NoError(t, Expire(acct, "alice/1", 16))
	require.Equal(t, state.RandomnessExpired, acct.Status)
	require.ErrorIs(t, Expire(acct, "alice/1", 17), types.ErrCommitmentConsumed)

	revealed := committedAccount(t, 5)
	require.NoError(t, Bind(revealed, "alice/2", 5))
	reveal(t, revealed, o, k, 6)
	require.ErrorIs(t, Expire(revealed, "alice/2", 100), types.ErrRevealAvailable)
}

func TestReveal_Rejections(t *testing.T) {
	o, k := testOracle(t)

	acct := committedAccount(t, 5)
	p, err := k.Prove(acct.Seed)
	require.NoError(t, err)

	// Nothing is bound yet.
	err = Reveal(acct, o, p.Output(), p.Bytes(), 6)
	require.ErrorIs(t, err, types.ErrRevealNotReady)

	// Bound in this block: the value stays hidden until the next one.
	require.NoError(t, Bind(acct, "alice/1", 6))
	err = Reveal(acct, o, p.Output(), p.Bytes(), 6)
	require.ErrorIs(t, err, types.ErrRevealNotReady)

	err = Reveal(acct, o, p.Output(), p.Bytes(), 16)
	require.ErrorIs(t, err, types.ErrCommitmentExpired)

	wrong := make([]byte, 32)
	err = Reveal(acct, o, wrong, p.Bytes(), 7)
	require.ErrorIs(t, err, types.ErrInvalidProof)

	// Proof over a different input.
	p2, err := k.Prove([]byte("not the seed"))
	require.NoError(t, err)
	err = Reveal(acct, o, p2.Output(), p2.Bytes(), 7)
	require.ErrorIs(t, err, types.ErrInvalidProof)

	// Another oracle's key.
	mallory, err := vrf.NewPrivateKey(bytes.Repeat([]byte{9}, 32))
	require.NoError(t, err)
	p3, err := mallory.Prove(acct.Seed)
	require.NoError(t, err)
	err = Reveal(acct, o, p3.Output(), p3.Bytes(), 7)
	require.ErrorIs(t, err, types.ErrInvalidProof)

	require.Equal(t, state.RandomnessCommitted, acct.Status)

	require.Empty(t, acct.Value)

	require.NoError(t, Reveal(acct, o, p.Output(), p.Bytes(), 7))
	require.ErrorIs(t, Reveal(acct, o, p.Output(), p.Bytes(), 8), types.ErrRandomnessRevealed)
}
