package app

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/require"

	"onchaindice/internal/randomness"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
)

func query(t *testing.T, a *DiceApp, path string, out any) *abci.QueryResponse {
	t.Helper()
	res, err := a.Query(context.Background(), &abci.QueryRequest{Path: path})
	require.NoError(t, err)
	if out != nil {
		require.Zero(t, res.Code, "query %s: %s", path, res.Log)
		require.NoError(t, json.Unmarshal(res.Value, out))
	}
	return res
}

func TestQuery_TreasuryBetAndRandomness(t *testing.T) {
	f := newDiceFixture(t)
	a := f.a
	const h = int64(2)
	id := f.freshRandomness(t, h, "alice")
	res := mustOk(t, a.deliverTx(commitTx(t, "alice", 3, 40, unit, "under", id), h, 0))
	maxPayout := parseU64(t, attr(findEvent(res.Events, types.EventTypeBetCommitted), "maxPayout"))

	var tr struct {
		Authority string `json:"authority"`
		Balance   uint64 `json:"balance"`
		Reserved  uint64 `json:"reserved"`
		Available uint64 `json:"available"`
		MaxStake  uint64 `json:"maxStake"`
	}
	query(t, a, "/treasury", &tr)
	require.Equal(t, "house", tr.Authority)
	require.Equal(t, fixtureTreasury+unit, tr.Balance)
	require.Equal(t, maxPayout, tr.Reserved)
	require.Equal(t, tr.Balance-tr.Reserved, tr.Available)
	require.Equal(t, tr.Available/100, tr.MaxStake)

	var bet state.BetEntry
	query(t, a, "/bet/alice/3", &bet)
	require.Equal(t, state.BetCommitted, bet.Status)
	require.Equal(t, id, bet.RandomnessID)
	require.Equal(t, types.DirectionUnder, bet.Direction)

	var view struct {
		Status state.RandomnessStatus `json:"status"`
		Poll   randomness.Status      `json:"poll"`
	}
	query(t, a, fmt.Sprintf("/randomness/%d", id), &view)
	require.Equal(t, randomness.StatusPending, view.Poll)

	f.reveal(t, h+1, id)
	query(t, a, fmt.Sprintf("/randomness/%d", id), &view)
	require.Equal(t, state.RandomnessRevealed, view.Status)
	require.Equal(t, randomness.StatusReady, view.Poll)

	var orc state.Oracle
	query(t, a, "/oracle/orc", &orc)
	require.Equal(t, uint64(1), orc.Reveals)

	var acct struct {
		Balance uint64 `json:"balance"`
	}
	query(t, a, "/account/alice", &acct)
	require.Equal(t, fixturePlayer-unit, acct.Balance)
}

func TestQuery_Errors(t *testing.T) {
	a := newTestApp(t)
	cases := map[string]string{
		"/treasury":        "TreasuryNotInitialized",
		"/bet/alice/1":     "RoundNotFound",
		"/bet/alice/x":     "InvalidRequest",
		"/bet/1":           "InvalidRequest",
		"/randomness/7":    "RandomnessNotFound",
		"/randomness/nope": "InvalidRequest",
		"/oracle/ghost":    "OracleNotFound",
		"/nope":            "InvalidRequest",
	}
	for path, kind := range cases {
		res := query(t, a, path, nil)
		require.NotZero(t, res.Code, path)
		require.Equal(t, kind, res.Info, path)
		require.Equal(t, types.ModuleName, res.Codespace, path)
	}
}
