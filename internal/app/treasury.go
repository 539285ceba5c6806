package app

import (
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"onchaindice/internal/codec"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
)

func treasuryInit(st *state.State, env codec.TxEnvelope, msg codec.TreasuryInitTx) (*abci.ExecTxResult, error) {
	if err := requireSigner(env, msg.Authority); err != nil {
		return nil, err
	}
	if st.Treasury != nil {
		return nil, types.ErrTreasuryExists.Wrapf("authority %q", st.Treasury.Authority)
	}
	tr, err := state.NewTreasury(msg.Authority)
	if err != nil {
		return nil, err
	}
	st.Treasury = tr
	return okEvent(types.EventTypeTreasuryInitialized, map[string]string{
		"authority": tr.Authority,
		"address":   tr.Address,
		"bump":      fmt.Sprintf("%d", tr.Bump),
	}), nil
}

func requireTreasury(st *state.State) (*state.Treasury, error) {
	if st.Treasury == nil {
		return nil, types.ErrTreasuryNotInitialized
	}
	return st.Treasury, nil
}

func treasuryFund(st *state.State, env codec.TxEnvelope, msg codec.TreasuryFundTx) (*abci.ExecTxResult, error) {
	if msg.Amount == 0 {
		return nil, types.ErrInvalidRequest.Wrap("amount must be > 0")
	}
	if err := requireSigner(env, msg.From); err != nil {
		return nil, err
	}
	tr, err := requireTreasury(st)
	if err != nil {
		return nil, err
	}
	if err := st.Debit(msg.From, msg.Amount); err != nil {
		return nil, err
	}
	if err := tr.Deposit(msg.Amount); err != nil {
		return nil, err
	}
	return okEvent(types.EventTypeTreasuryFunded, map[string]string{
		"from":    msg.From,
		"amount":  fmt.Sprintf("%d", msg.Amount),
		"balance": fmt.Sprintf("%d", tr.Balance),
	}), nil
}

func treasuryWithdraw(st *state.State, env codec.TxEnvelope, msg codec.TreasuryWithdrawTx) (*abci.ExecTxResult, error) {
	if err := requireSigner(env, msg.Authority); err != nil {
		return nil, err
	}
	tr, err := requireTreasury(st)
	if err != nil {
		return nil, err
	}
	if msg.Authority != tr.Authority {
		return nil, types.ErrUnauthorized.Wrapf("%q is not the treasury authority", msg.Authority)
	}
	if msg.Amount == 0 {
		return nil, types.ErrInvalidRequest.Wrap("amount must be > 0")
	}
	if msg.Amount > st.Params.MaxWithdrawal {
		return nil, types.ErrWithdrawalLimitExceeded.Wrapf("amount %d above limit %d", msg.Amount, st.Params.MaxWithdrawal)
	}
	if err := tr.Withdraw(msg.Amount, st.Params.MinTreasuryReserve); err != nil {
		return nil, err
	}
	to := msg.To
	if to == "" {
		to = msg.Authority
	}
	if err := st.Credit(to, msg.Amount); err != nil {
		return nil, err
	}
	return okEvent(types.EventTypeTreasuryWithdrawn, map[string]string{
		"authority": msg.Authority,
		"to":        to,
		"amount":    fmt.Sprintf("%d", msg.Amount),
		"balance":   fmt.Sprintf("%d", tr.Balance),
	}), nil
}
