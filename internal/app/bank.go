package app

import (
	"crypto/ed25519"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"onchaindice/internal/codec"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
)

func bankMint(st *state.State, msg codec.BankMintTx) (*abci.ExecTxResult, error) {
	if msg.To == "" || msg.Amount == 0 {
		return nil, types.ErrInvalidRequest.Wrap("missing to/amount")
	}
	if err := st.Credit(msg.To, msg.Amount); err != nil {
		return nil, err
	}
	return okEvent(types.EventTypeBankMinted, map[string]string{
		"to":     msg.To,
		"amount": fmt.Sprintf("%d", msg.Amount),
	}), nil
}

func bankSend(st *state.State, env codec.TxEnvelope, msg codec.BankSendTx) (*abci.ExecTxResult, error) {
	if msg.From == "" || msg.To == "" || msg.Amount == 0 {
		return nil, types.ErrInvalidRequest.Wrap("missing from/to/amount")
	}
	if err := requireSigner(env, msg.From); err != nil {
		return nil, err
	}
	if err := st.Debit(msg.From, msg.Amount); err != nil {
		return nil, err
	}
	if err := st.Credit(msg.To, msg.Amount); err != nil {
		return nil, err
	}
	return okEvent(types.EventTypeBankSent, map[string]string{
		"from":   msg.From,
		"to":     msg.To,
		"amount": fmt.Sprintf("%d", msg.Amount),
	}), nil
}

func authRegisterAccount(st *state.State, env codec.TxEnvelope, msg codec.AuthRegisterAccountTx) (*abci.ExecTxResult, error) {
	if err := requireSigner(env, msg.Account); err != nil {
		return nil, err
	}
	if len(msg.PubKey) != ed25519.PublicKeySize {
		return nil, types.ErrInvalidRequest.Wrapf("pubKey must be %d bytes", ed25519.PublicKeySize)
	}
	if existing := st.AccountKeys[msg.Account]; len(existing) != 0 {
		return nil, types.ErrUnauthorized.Wrapf("account %q already has a pubKey", msg.Account)
	}
	st.AccountKeys[msg.Account] = append([]byte(nil), msg.PubKey...)
	return okEvent(types.EventTypeAccountRegistered, map[string]string{
		"account": msg.Account,
	}), nil
}
