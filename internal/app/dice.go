package app

import (
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"onchaindice/internal/codec"
	"onchaindice/internal/randomness"
	"onchaindice/internal/rules"
	"onchaindice/internal/settlement"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
)

// diceCommit takes a bet from Created to Committed: the guess and stake are
// validated, the stake moves into the treasury, the maximum payout is
// reserved, and the randomness commitment is bound to the round.
func diceCommit(st *state.State, env codec.TxEnvelope, msg codec.DiceCommitTx, height int64, nowUnix int64) (*abci.ExecTxResult, error) {
	if err := requireSigner(env, msg.Player); err != nil {
		return nil, err
	}
	tr, err := requireTreasury(st)
	if err != nil {
		return nil, err
	}

	key := state.BetKey(msg.Player, msg.RoundID)
	if existing, ok := st.Bets[key]; ok {
		if existing.Status.Final() {
			return nil, types.ErrRoundAlreadyFinalized.Wrapf("round %s is %s", key, existing.Status)
		}
		return nil, types.ErrCommitmentAlreadyBound.Wrapf("round %s already committed to randomness %d", key, existing.RandomnessID)
	}

	dir, err := types.ParseDirection(msg.Direction)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateGuess(msg.Threshold, dir); err != nil {
		return nil, err
	}
	available := tr.Available()
	if err := rules.ValidateStake(msg.Stake, available, st.Params); err != nil {
		return nil, err
	}
	maxPayout, err := settlement.Payout(msg.Stake, msg.Threshold, dir, st.Params.HouseEdgeBps)
	if err != nil {
		return nil, err
	}
	// The stake itself joins the treasury before the reservation is taken.
	if maxPayout-msg.Stake > available {
		return nil, types.ErrBetOutOfRange.Wrapf("max payout %d exceeds treasury liquidity %d", maxPayout, available)
	}

	acct, ok := st.Randomness[msg.RandomnessID]
	if !ok {
		return nil, types.ErrRandomnessNotFound.Wrapf("randomness %d", msg.RandomnessID)
	}
	if acct.Requester != msg.Player {
		return nil, types.ErrUnauthorized.Wrapf("randomness %d was requested by %q", acct.ID, acct.Requester)
	}
	if err := randomness.Bind(acct, key, height); err != nil {
		return nil, err
	}

	bet := state.NewBetEntry(msg.Player, msg.RoundID, msg.Stake, msg.Threshold, dir)
	if err := st.Debit(msg.Player, msg.Stake); err != nil {
		return nil, err
	}
	if err := tr.Deposit(msg.Stake); err != nil {
		return nil, err
	}
	if err := tr.Reserve(maxPayout); err != nil {
		return nil, err
	}
	if err := bet.Commit(acct.ID, maxPayout, height, nowUnix); err != nil {
		return nil, err
	}
	st.Bets[key] = bet

	return okEvent(types.EventTypeBetCommitted, map[string]string{
		"player":       bet.Player,
		"roundId":      fmt.Sprintf("%d", bet.RoundID),
		"stake":        fmt.Sprintf("%d", bet.Stake),
		"threshold":    fmt.Sprintf("%d", bet.Threshold),
		"direction":    string(bet.Direction),
		"randomnessId": fmt.Sprintf("%d", acct.ID),
		"maxPayout":    fmt.Sprintf("%d", maxPayout),
		"expiryHeight": fmt.Sprintf("%d", acct.ExpiryHeight),
	}), nil
}

func committedBet(st *state.State, player string, roundID uint64) (*state.BetEntry, *state.RandomnessAccount, error) {
	key := state.BetKey(player, roundID)
	bet, ok := st.Bets[key]
	if !ok {
		return nil, nil, types.ErrRoundNotFound.Wrapf("round %s", key)
	}
	if bet.Status.Final() {
		return nil, nil, types.ErrRoundAlreadyFinalized.Wrapf("round %s is %s", key, bet.Status)
	}
	acct, ok := st.Randomness[bet.RandomnessID]
	if !ok {
		return nil, nil, types.ErrRandomnessNotFound.Wrapf("randomness %d for round %s", bet.RandomnessID, key)
	}
	return bet, acct, nil
}

// diceSettle consumes the revealed value bound to the round, rolls, and pays
// a winner. Anyone may submit it; funds only ever go to the player.
func diceSettle(st *state.State, msg codec.DiceSettleTx, height int64) (*abci.ExecTxResult, error) {
	bet, acct, err := committedBet(st, msg.Player, msg.RoundID)
	if err != nil {
		return nil, err
	}
	if msg.RandomnessID != bet.RandomnessID {
		return nil, types.ErrCommitmentMismatch.Wrapf("round %s is bound to randomness %d, not %d",
			bet.Key(), bet.RandomnessID, msg.RandomnessID)
	}
	value, err := randomness.Consume(acct, bet.Key(), height)
	if err != nil {
		return nil, err
	}
	out, err := settlement.Evaluate(value, bet.Stake, bet.Threshold, bet.Direction, st.Params.HouseEdgeBps)
	if err != nil {
		return nil, err
	}

	tr, err := requireTreasury(st)
	if err != nil {
		return nil, err
	}
	if err := tr.Release(bet.Reserved); err != nil {
		return nil, err
	}
	if out.Won {
		if err := tr.Disburse(out.Payout); err != nil {
			return nil, err
		}
		if err := st.Credit(bet.Player, out.Payout); err != nil {
			return nil, err
		}
	}
	if err := bet.Settle(out, height); err != nil {
		return nil, err
	}

	return okEvent(types.EventTypeBetSettled, map[string]string{
		"player":       bet.Player,
		"roundId":      fmt.Sprintf("%d", bet.RoundID),
		"randomnessId": fmt.Sprintf("%d", acct.ID),
		"roll":         fmt.Sprintf("%d", out.Roll),
		"threshold":    fmt.Sprintf("%d", bet.Threshold),
		"direction":    string(bet.Direction),
		"won":          fmt.Sprintf("%t", out.Won),
		"stake":        fmt.Sprintf("%d", bet.Stake),
		"payout":       fmt.Sprintf("%d", out.Payout),
	}), nil
}

// diceVoid refunds a round whose commitment expired unrevealed.
func diceVoid(st *state.State, msg codec.DiceVoidTx, height int64) (*abci.ExecTxResult, error) {
	bet, acct, err := committedBet(st, msg.Player, msg.RoundID)
	if err != nil {
		return nil, err
	}
	if err := randomness.Expire(acct, bet.Key(), height); err != nil {
		return nil, err
	}

	tr, err := requireTreasury(st)
	if err != nil {
		return nil, err
	}
	if err := tr.Release(bet.Reserved); err != nil {
		return nil, err
	}
	if err := tr.Disburse(bet.Stake); err != nil {
		return nil, err
	}
	if err := st.Credit(bet.Player, bet.Stake); err != nil {
		return nil, err
	}
	if err := bet.Void(height); err != nil {
		return nil, err
	}
	if o, ok := st.Oracles[acct.Oracle]; ok {
		o.MissedWindow++
	}

	return okEvent(types.EventTypeBetVoided, map[string]string{
		"player":       bet.Player,
		"roundId":      fmt.Sprintf("%d", bet.RoundID),
		"randomnessId": fmt.Sprintf("%d", acct.ID),
		"refund":       fmt.Sprintf("%d", bet.Stake),
	}), nil
}
