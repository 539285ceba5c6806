package app

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"
	dbm "github.com/cosmos/cosmos-db"

	"onchaindice/internal/codec"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
	"onchaindice/internal/vrf"
)

const unit = types.BaseUnitsPerUnit

var testNonce atomic.Uint64

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func txBytes(t *testing.T, typ string, value any) []byte {
	t.Helper()
	return mustMarshal(t, map[string]any{
		"type":  typ,
		"value": value,
	})
}

func testEd25519Key(id string) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := sha256.Sum256([]byte("dice-test-ed25519:" + id))
	priv := ed25519.NewKeyFromSeed(seed[:])
	return priv.Public().(ed25519.PublicKey), priv
}

func txBytesSigned(t *testing.T, typ string, value any, signer string) []byte {
	t.Helper()
	_, priv := testEd25519Key(signer)
	valueBytes := mustMarshal(t, value)
	nonce := strconv.FormatUint(testNonce.Add(1), 10)
	env := codec.TxEnvelope{
		Type:   typ,
		Value:  valueBytes,
		Nonce:  nonce,
		Signer: signer,
		Sig:    ed25519.Sign(priv, txAuthSignBytesV0(typ, valueBytes, nonce, signer)),
	}
	return mustMarshal(t, env)
}

func findEvent(events []abci.Event, typ string) *abci.Event {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}

func attr(ev *abci.Event, key string) string {
	if ev == nil {
		return ""
	}
	for _, a := range ev.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func parseU64(t *testing.T, s string) uint64 {
	t.Helper()
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		t.Fatalf("parse uint64 %q: %v", s, err)
	}
	return n
}

func newTestApp(t *testing.T, opts ...Option) *DiceApp {
	t.Helper()
	opts = append([]Option{WithStore(state.NewStore(dbm.NewMemDB()))}, opts...)
	a, err := New(t.TempDir(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func mustOk(t *testing.T, res *abci.ExecTxResult) *abci.ExecTxResult {
	t.Helper()
	if res.Code != 0 {
		t.Fatalf("expected ok, got code=%d info=%s log=%q", res.Code, res.Info, res.Log)
	}
	return res
}

func mustFail(t *testing.T, res *abci.ExecTxResult, kind string) *abci.ExecTxResult {
	t.Helper()
	if res.Code == 0 {
		t.Fatalf("expected %s, got ok", kind)
	}
	if res.Info != kind {
		t.Fatalf("expected %s, got code=%d info=%s log=%q", kind, res.Code, res.Info, res.Log)
	}
	if res.Codespace != types.ModuleName {
		t.Fatalf("expected codespace %q, got %q", types.ModuleName, res.Codespace)
	}
	return res
}

func mintTestTokens(t *testing.T, a *DiceApp, height int64, to string, amount uint64) {
	t.Helper()
	mustOk(t, a.deliverTx(txBytes(t, codec.TypeBankMint, map[string]any{"to": to, "amount": amount}), height, 0))
}

func registerTestAccount(t *testing.T, a *DiceApp, height int64, account string) {
	t.Helper()
	pub, _ := testEd25519Key(account)
	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeAuthRegisterAccount, map[string]any{
		"account": account,
		"pubKey":  []byte(pub),
	}, account), height, 0))
}

func testVRFKey(t *testing.T, oracle string) vrf.PrivateKey {
	t.Helper()
	seed := sha256.Sum256([]byte("dice-test-vrf:" + oracle))
	k, err := vrf.NewPrivateKey(bytes.Repeat(seed[:], 2))
	if err != nil {
		t.Fatalf("vrf key: %v", err)
	}
	return k
}

// diceFixture is a chain with a funded treasury, a registered oracle and two
// funded, registered players.
type diceFixture struct {
	a      *DiceApp
	oracle string
	key    vrf.PrivateKey
}

const (
	fixtureHeight   = int64(1)
	fixtureTreasury = 1_000 * unit
	fixturePlayer   = 100 * unit
)

func newDiceFixture(t *testing.T) *diceFixture {
	t.Helper()
	a := newTestApp(t)
	f := &diceFixture{a: a, oracle: "orc", key: testVRFKey(t, "orc")}

	for _, acct := range []string{"house", "alice", "bob", f.oracle} {
		registerTestAccount(t, a, fixtureHeight, acct)
	}
	mintTestTokens(t, a, fixtureHeight, "house", fixtureTreasury)
	mintTestTokens(t, a, fixtureHeight, "alice", fixturePlayer)
	mintTestTokens(t, a, fixtureHeight, "bob", fixturePlayer)

	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeTreasuryInit, map[string]any{"authority": "house"}, "house"), fixtureHeight, 0))
	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeTreasuryFund, map[string]any{"from": "house", "amount": fixtureTreasury}, "house"), fixtureHeight, 0))
	mustOk(t, a.deliverTx(txBytesSigned(t, codec.TypeOracleRegister, map[string]any{
		"oracleId": f.oracle,
		"pubKey":   f.key.Public().Bytes(),
	}, f.oracle), fixtureHeight, 0))
	return f
}

// freshRandomness requests and commits a randomness account for player.
func (f *diceFixture) freshRandomness(t *testing.T, height int64, player string) uint64 {
	t.Helper()
	res := mustOk(t, f.a.deliverTx(txBytesSigned(t, codec.TypeOracleRequest, map[string]any{
		"requester": player,
		"oracleId":  f.oracle,
	}, player), height, 0))
	id := parseU64(t, attr(findEvent(res.Events, types.EventTypeRandomnessRequested), "randomnessId"))
	mustOk(t, f.a.deliverTx(txBytesSigned(t, codec.TypeOracleCommit, map[string]any{
		"oracleId":     f.oracle,
		"randomnessId": id,
	}, f.oracle), height, 0))
	return id
}

func (f *diceFixture) revealTx(t *testing.T, id uint64) []byte {
	t.Helper()
	acct := f.a.st.Randomness[id]
	if acct == nil {
		t.Fatalf("randomness %d not found", id)
	}
	p, err := f.key.Prove(acct.Seed)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	return txBytesSigned(t, codec.TypeOracleReveal, map[string]any{
		"oracleId":     f.oracle,
		"randomnessId": id,
		"value":        p.Output(),
		"proof":        p.Bytes(),
	}, f.oracle)
}

func (f *diceFixture) reveal(t *testing.T, height int64, id uint64) []byte {
	t.Helper()
	mustOk(t, f.a.deliverTx(f.revealTx(t, id), height, 0))
	return f.a.st.Randomness[id].Value
}

func commitTx(t *testing.T, player string, roundID uint64, threshold uint32, stake uint64, dir string, randomnessID uint64) []byte {
	t.Helper()
	return txBytesSigned(t, codec.TypeDiceCommit, map[string]any{
		"player":       player,
		"roundId":      roundID,
		"threshold":    threshold,
		"stake":        stake,
		"direction":    dir,
		"randomnessId": randomnessID,
	}, player)
}

func settleTx(t *testing.T, player string, roundID, randomnessID uint64) []byte {
	t.Helper()
	return txBytes(t, codec.TypeDiceSettle, map[string]any{"player": player, "roundId": roundID, "randomnessId": randomnessID})
}

func voidTx(t *testing.T, player string, roundID uint64) []byte {
	t.Helper()
	return txBytes(t, codec.TypeDiceVoid, map[string]any{"player": player, "roundId": roundID})
}

// forceReveal overwrites a commitment with a chosen value, as if the oracle
// had revealed it.
func forceReveal(a *DiceApp, id uint64, value []byte, height int64) {
	acct := a.st.Randomness[id]
	acct.Value = value
	acct.Status = state.RandomnessRevealed
	acct.RevealHeight = height
}

func valueWithRoll(roll byte) []byte {
	v := make([]byte, 32)
	v[31] = roll
	return v
}
