package app

import (
	"encoding/hex"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"onchaindice/internal/codec"
	"onchaindice/internal/randomness"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
	"onchaindice/internal/vrf"
)

func oracleRegister(st *state.State, env codec.TxEnvelope, msg codec.OracleRegisterTx, height int64) (*abci.ExecTxResult, error) {
	if err := requireSigner(env, msg.OracleID); err != nil {
		return nil, err
	}
	pub, err := vrf.PointFromCanonical(msg.PubKey)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrapf("vrf pubKey: %v", err)
	}
	if pub.IsIdentity() {
		return nil, types.ErrInvalidRequest.Wrap("vrf pubKey is the identity")
	}
	if _, ok := st.Oracles[msg.OracleID]; ok {
		return nil, types.ErrInvalidRequest.Wrapf("oracle %q already registered", msg.OracleID)
	}
	st.Oracles[msg.OracleID] = &state.Oracle{
		ID:         msg.OracleID,
		PubKey:     pub.Bytes(),
		Registered: height,
	}
	return okEvent(types.EventTypeOracleRegistered, map[string]string{
		"oracleId": msg.OracleID,
		"pubKey":   hex.EncodeToString(pub.Bytes()),
	}), nil
}

func oracleRequest(st *state.State, env codec.TxEnvelope, msg codec.OracleRequestTx, height int64) (*abci.ExecTxResult, error) {
	if err := requireSigner(env, msg.Requester); err != nil {
		return nil, err
	}
	if _, ok := st.Oracles[msg.OracleID]; !ok {
		return nil, types.ErrOracleNotFound.Wrapf("oracle %q", msg.OracleID)
	}
	id := st.NextRandomnessID
	next, err := addUint64Checked(id, 1, "nextRandomnessId")
	if err != nil {
		return nil, err
	}
	st.NextRandomnessID = next
	st.Randomness[id] = &state.RandomnessAccount{
		ID:            id,
		Oracle:        msg.OracleID,
		Requester:     msg.Requester,
		Status:        state.RandomnessRequested,
		RequestHeight: height,
	}
	return okEvent(types.EventTypeRandomnessRequested, map[string]string{
		"randomnessId": fmt.Sprintf("%d", id),
		"oracleId":     msg.OracleID,
		"requester":    msg.Requester,
	}), nil
}

// oracleAccount loads a randomness account owned by the signing oracle.
func oracleAccount(st *state.State, env codec.TxEnvelope, oracleID string, randomnessID uint64) (*state.Oracle, *state.RandomnessAccount, error) {
	if err := requireSigner(env, oracleID); err != nil {
		return nil, nil, err
	}
	o, ok := st.Oracles[oracleID]
	if !ok {
		return nil, nil, types.ErrOracleNotFound.Wrapf("oracle %q", oracleID)
	}
	acct, ok := st.Randomness[randomnessID]
	if !ok {
		return nil, nil, types.ErrRandomnessNotFound.Wrapf("randomness %d", randomnessID)
	}
	if acct.Oracle != oracleID {
		return nil, nil, types.ErrUnauthorized.Wrapf("randomness %d belongs to oracle %q", randomnessID, acct.Oracle)
	}
	return o, acct, nil
}

func oracleCommit(st *state.State, env codec.TxEnvelope, msg codec.OracleCommitTx, height int64) (*abci.ExecTxResult, error) {
	_, acct, err := oracleAccount(st, env, msg.OracleID, msg.RandomnessID)
	if err != nil {
		return nil, err
	}
	expiry, err := addInt64Checked(height, st.Params.RevealWindowBlocks, "expiryHeight")
	if err != nil {
		return nil, err
	}
	if err := randomness.Commit(acct, height, expiry); err != nil {
		return nil, err
	}
	return okEvent(types.EventTypeRandomnessCommitted, map[string]string{
		"randomnessId": fmt.Sprintf("%d", acct.ID),
		"oracleId":     acct.Oracle,
		"seed":         hex.EncodeToString(acct.Seed),
		"commitHeight": fmt.Sprintf("%d", acct.CommitHeight),
		"expiryHeight": fmt.Sprintf("%d", acct.ExpiryHeight),
	}), nil
}

func oracleReveal(st *state.State, env codec.TxEnvelope, msg codec.OracleRevealTx, height int64) (*abci.ExecTxResult, error) {
	o, acct, err := oracleAccount(st, env, msg.OracleID, msg.RandomnessID)
	if err != nil {
		return nil, err
	}
	if err := randomness.Reveal(acct, o, msg.Value, msg.Proof, height); err != nil {
		return nil, err
	}
	o.Reveals++
	return okEvent(types.EventTypeRandomnessRevealed, map[string]string{
		"randomnessId": fmt.Sprintf("%d", acct.ID),
		"oracleId":     acct.Oracle,
		"value":        hex.EncodeToString(acct.Value),
		"boundBet":     acct.BoundBet,
	}), nil
}
