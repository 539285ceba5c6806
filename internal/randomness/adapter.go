// Package randomness binds oracle commitments to bets and hands out revealed
// values exactly once.
package randomness

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"

	"onchaindice/internal/state"
	"onchaindice/internal/types"
	"onchaindice/internal/vrf"
)

const seedDomain = "dice/v1/randomness/seed"

// Status is what a poller sees for a commitment at a given height.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReady    Status = "ready"
	StatusExpired  Status = "expired"
	StatusConsumed Status = "consumed"
)

// Seed is the VRF input the oracle commits to. It is bound to the account,
// both parties and the commit height, so it cannot be replayed elsewhere.
func Seed(acct *state.RandomnessAccount, commitHeight int64) []byte {
	h := sha256.New()
	h.Write([]byte(seedDomain))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], acct.ID)
	h.Write(n[:])
	for _, s := range []string{acct.Requester, acct.Oracle} {
		binary.BigEndian.PutUint32(n[:4], uint32(len(s)))
		h.Write(n[:4])
		h.Write([]byte(s))
	}
	binary.BigEndian.PutUint64(n[:], uint64(commitHeight))
	h.Write(n[:])
	return h.Sum(nil)
}

// Commit fixes the seed and opens the reveal window, which stays open
// through expiryHeight.
func Commit(acct *state.RandomnessAccount, height, expiryHeight int64) error {
	if acct.Status != state.RandomnessRequested {
		return types.ErrCommitmentAlreadyBound.Wrapf("randomness %d is %s", acct.ID, acct.Status)
	}
	if expiryHeight < height {
		return types.ErrInvalidRequest.Wrapf("expiry height %d before commit height %d", expiryHeight, height)
	}
	acct.Seed = Seed(acct, height)
	acct.CommitHeight = height
	acct.ExpiryHeight = expiryHeight
	acct.Status = state.RandomnessCommitted
	return nil
}

// StatusAt reports the commitment's state at height.
func StatusAt(acct *state.RandomnessAccount, height int64) Status {
	switch acct.Status {
	case state.RandomnessConsumed, state.RandomnessExpired:
		return StatusConsumed
	case state.RandomnessRevealed:
		return StatusReady
	case state.RandomnessCommitted:
		if height > acct.ExpiryHeight {
			return StatusExpired
		}
	}
	return StatusPending
}

// Bind attaches a fresh, unrevealed commitment to betKey.
func Bind(acct *state.RandomnessAccount, betKey string, height int64) error {
	if acct.BoundBet != "" {
		return types.ErrCommitmentAlreadyBound.Wrapf("randomness %d bound to %s", acct.ID, acct.BoundBet)
	}
	switch acct.Status {
	case state.RandomnessRequested:
		return types.ErrRandomnessNotCommitted.Wrapf("randomness %d", acct.ID)
	case state.RandomnessRevealed:
		return types.ErrRandomnessRevealed.Wrapf("randomness %d", acct.ID)
	case state.RandomnessConsumed, state.RandomnessExpired:
		return types.ErrCommitmentAlreadyBound.Wrapf("randomness %d is %s", acct.ID, acct.Status)
	}
	if height > acct.ExpiryHeight {
		return types.ErrCommitmentExpired.Wrapf("randomness %d expired at height %d", acct.ID, acct.ExpiryHeight)
	}
	acct.BoundBet = betKey
	acct.BindHeight = height
	return nil
}

// Consume returns the revealed value for betKey and marks it spent.
func Consume(acct *state.RandomnessAccount, betKey string, height int64) ([]byte, error) {
	if acct.BoundBet != betKey {
		return nil, types.ErrCommitmentMismatch.Wrapf("randomness %d is not bound to %s", acct.ID, betKey)
	}
	switch StatusAt(acct, height) {
	case StatusConsumed:
		return nil, types.ErrCommitmentConsumed.Wrapf("randomness %d", acct.ID)
	case StatusExpired:
		return nil, types.ErrCommitmentExpired.Wrapf("randomness %d expired at height %d", acct.ID, acct.ExpiryHeight)
	case StatusPending:
		return nil, types.ErrRevealNotReady.Wrapf("randomness %d reveal window open until height %d", acct.ID, acct.ExpiryHeight)
	}
	acct.Status = state.RandomnessConsumed
	return append([]byte(nil), acct.Value...), nil
}

// Expire retires an unrevealed commitment whose window has closed.
func Expire(acct *state.RandomnessAccount, betKey string, height int64) error {
	if acct.BoundBet != betKey {
		return types.ErrCommitmentMismatch.Wrapf("randomness %d is not bound to %s", acct.ID, betKey)
	}
	switch StatusAt(acct, height) {
	case StatusReady:
		return types.ErrRevealAvailable.Wrapf("randomness %d was revealed at height %d", acct.ID, acct.RevealHeight)
	case StatusPending:
		return types.ErrCommitmentNotExpired.Wrapf("randomness %d expires after height %d", acct.ID, acct.ExpiryHeight)
	case StatusConsumed:
		return types.ErrCommitmentConsumed.Wrapf("randomness %d", acct.ID)
	}
	acct.Status = state.RandomnessExpired
	return nil
}

// Reveal verifies the oracle's VRF proof for the committed seed and records
// the value. The commitment must already be bound to a bet in an earlier
// block, so no guess can be placed after the value is public. Reveals after
// the window are refused.
func Reveal(acct *state.RandomnessAccount, oracle *state.Oracle, value, proof []byte, height int64) error {
	switch acct.Status {
	case state.RandomnessRequested:
		return types.ErrRandomnessNotCommitted.Wrapf("randomness %d", acct.ID)
	case state.RandomnessCommitted:
	default:
		return types.ErrRandomnessRevealed.Wrapf("randomness %d is %s", acct.ID, acct.Status)
	}
	if height > acct.ExpiryHeight {
		return types.ErrCommitmentExpired.Wrapf("randomness %d expired at height %d", acct.ID, acct.ExpiryHeight)
	}
	if acct.BoundBet == "" {
		return types.ErrRevealNotReady.Wrapf("randomness %d is not bound to a bet", acct.ID)
	}
	if height <= acct.BindHeight {
		return types.ErrRevealNotReady.Wrapf("randomness %d was bound at height %d; reveal from height %d",
			acct.ID, acct.BindHeight, acct.BindHeight+1)
	}
	out, err := VerifyReveal(oracle.PubKey, acct.Seed, value, proof)
	if err != nil {
		return err
	}
	acct.Value = out
	acct.Proof = append([]byte(nil), proof...)
	acct.RevealHeight = height
	acct.Status = state.RandomnessRevealed
	return nil
}

// VerifyReveal checks proof against the oracle key and seed, and that value
// is the output it commits to.
func VerifyReveal(pubKey, seed, value, proof []byte) ([]byte, error) {
	pub, err := vrf.PointFromCanonical(pubKey)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidProof, err.Error())
	}
	p, err := vrf.DecodeProof(proof)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidProof, err.Error())
	}
	out, err := vrf.Verify(pub, seed, p)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidProof, err.Error())
	}
	if !bytes.Equal(out, value) {
		return nil, types.ErrInvalidProof.Wrap("value does not match proof output")
	}
	return out, nil
}
