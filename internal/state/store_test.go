package state

import (
	"testing"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"onchaindice/internal/settlement"
	"onchaindice/internal/types"
)

func populatedState(t *testing.T) *State {
	t.Helper()
	st := NewState()
	st.Height = 42
	st.Params.HouseEdgeBps = 250
	st.Accounts["alice"] = 1_000
	st.Accounts["bob"] = 7
	st.AccountKeys["alice"] = make([]byte, 32)
	st.NonceMax["alice"] = 3

	tr, err := NewTreasury("house")
	require.NoError(t, err)
	tr.Balance = 5_000
	tr.Reserved = 190
	st.Treasury = tr

	st.Oracles["orc"] = &Oracle{ID: "orc", PubKey: make([]byte, 32), Registered: 1}
	st.Randomness[1] = &RandomnessAccount{ID: 1, Oracle: "orc", Requester: "alice", Status: RandomnessCommitted, Seed: []byte{1, 2}, CommitHeight: 40, ExpiryHeight: 190, BoundBet: BetKey("alice", 1)}
	st.NextRandomnessID = 2

	bet := NewBetEntry("alice", 1, 100, 50, types.DirectionOver)
	require.NoError(t, bet.Commit(1, 190, 41, 1_700_000_000))
	st.Bets[bet.Key()] = bet

	done := NewBetEntry("bob", 1, 5, 10, types.DirectionUnder)
	require.NoError(t, done.Commit(1, 0, 2, 0))
	require.NoError(t, done.Settle(settlement.Outcome{Roll: 3, Won: true, Payout: 47}, 3))
	st.Bets[done.Key()] = done
	return st
}

func TestStore_RoundTripPreservesAppHash(t *testing.T) {
	store := NewStore(dbm.NewMemDB())
	st := populatedState(t)

	require.NoError(t, store.Save(st))
	loaded, err := store.Load()
	require.NoError(t, err)

	require.Equal(t, st.AppHash(), loaded.AppHash())
	require.Equal(t, st.Treasury, loaded.Treasury)
	require.Equal(t, st.Bets[BetKey("bob", 1)].Outcome, loaded.Bets[BetKey("bob", 1)].Outcome)
}

func TestStore_EmptyDBLoadsFreshState(t *testing.T) {
	store := NewStore(dbm.NewMemDB())
	st, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, NewState().AppHash(), st.AppHash())
	require.Nil(t, st.Treasury)
}

func TestStore_SaveDropsRemovedEntries(t *testing.T) {
	store := NewStore(dbm.NewMemDB())
	st := populatedState(t)
	require.NoError(t, store.Save(st))

	delete(st.Accounts, "bob")
	delete(st.Bets, BetKey("bob", 1))
	require.NoError(t, store.Save(st))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotContains(t, loaded.Accounts, "bob")
	require.NotContains(t, loaded.Bets, BetKey("bob", 1))
	require.Equal(t, st.AppHash(), loaded.AppHash())
}

func TestOpenStore_GoLevelDB(t *testing.T) {
	store, err := OpenStore(string(dbm.GoLevelDBBackend), t.TempDir())
	require.NoError(t, err)
	st := populatedState(t)
	require.NoError(t, store.Save(st))
	require.NoError(t, store.Close())
}
