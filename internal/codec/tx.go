package codec

import (
	"encoding/json"
	"fmt"
)

// Tx type routes.
const (
	TypeBankMint            = "bank/mint"
	TypeBankSend            = "bank/send"
	TypeAuthRegisterAccount = "auth/register_account"

	TypeTreasuryInit     = "treasury/init"
	TypeTreasuryFund     = "treasury/fund"
	TypeTreasuryWithdraw = "treasury/withdraw"

	TypeOracleRegister = "oracle/register"
	TypeOracleRequest  = "oracle/request"
	TypeOracleCommit   = "oracle/commit"
	TypeOracleReveal   = "oracle/reveal"

	TypeDiceCommit = "dice/commit"
	TypeDiceSettle = "dice/settle"
	TypeDiceVoid   = "dice/void"
)

// KnownTypes lists every routable tx type.
var KnownTypes = []string{
	TypeBankMint, TypeBankSend, TypeAuthRegisterAccount,
	TypeTreasuryInit, TypeTreasuryFund, TypeTreasuryWithdraw,
	TypeOracleRegister, TypeOracleRequest, TypeOracleCommit, TypeOracleReveal,
	TypeDiceCommit, TypeDiceSettle, TypeDiceVoid,
}

// TxEnvelope is the transaction container. CometBFT txs are opaque bytes;
// ours are JSON.
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Optional ed25519 auth:
	// - Nonce: decimal u64, must strictly increase per signer.
	// - Signer: account id whose registered key produced Sig.
	// - Sig: signature over (type, nonce, signer, sha256(value)).
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// DecodeValue unmarshals env.Value into a typed message.
func DecodeValue[T any](env TxEnvelope) (T, error) {
	var msg T
	if len(env.Value) == 0 {
		return msg, fmt.Errorf("missing %s value", env.Type)
	}
	if err := json.Unmarshal(env.Value, &msg); err != nil {
		return msg, fmt.Errorf("bad %s value: %w", env.Type, err)
	}
	return msg, nil
}

// ---- Bank ----

type BankMintTx struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type BankSendTx struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// ---- Auth ----

type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"` // base64 (32 bytes)
}

// ---- Treasury ----

type TreasuryInitTx struct {
	Authority string `json:"authority"`
}

type TreasuryFundTx struct {
	From   string `json:"from"`
	Amount uint64 `json:"amount"`
}

type TreasuryWithdrawTx struct {
	Authority string `json:"authority"`
	To        string `json:"to,omitempty"` // defaults to authority
	Amount    uint64 `json:"amount"`
}

// ---- Oracle ----

type OracleRegisterTx struct {
	OracleID string `json:"oracleId"`
	PubKey   []byte `json:"pubKey"` // base64 ristretto255 point (32 bytes)
}

type OracleRequestTx struct {
	Requester string `json:"requester"`
	OracleID  string `json:"oracleId"`
}

type OracleCommitTx struct {
	OracleID     string `json:"oracleId"`
	RandomnessID uint64 `json:"randomnessId"`
}

type OracleRevealTx struct {
	OracleID     string `json:"oracleId"`
	RandomnessID uint64 `json:"randomnessId"`
	Value        []byte `json:"value"` // base64 (32 bytes)
	Proof        []byte `json:"proof"` // base64 (128 bytes)
}

// ---- Dice ----

type DiceCommitTx struct {
	Player       string `json:"player"`
	RoundID      uint64 `json:"roundId"`
	Threshold    uint32 `json:"threshold"`
	Stake        uint64 `json:"stake"`
	Direction    string `json:"direction"` // over|under
	RandomnessID uint64 `json:"randomnessId"`
}

type DiceSettleTx struct {
	Player       string `json:"player"`
	RoundID      uint64 `json:"roundId"`
	RandomnessID uint64 `json:"randomnessId"`
}

type DiceVoidTx struct {
	Player  string `json:"player"`
	RoundID uint64 `json:"roundId"`
}
