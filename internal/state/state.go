package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"onchaindice/internal/types"
)

type State struct {
	Height int64        `json:"height"`
	Params types.Params `json:"params"`

	Accounts    map[string]uint64 `json:"accounts"`
	AccountKeys map[string][]byte `json:"accountKeys,omitempty"` // addr -> ed25519 pubkey (32 bytes)
	NonceMax    map[string]uint64 `json:"nonceMax,omitempty"`    // signer -> last accepted tx.nonce

	// Treasury is nil until treasury/init.
	Treasury *Treasury `json:"treasury,omitempty"`

	Oracles          map[string]*Oracle            `json:"oracles"`
	NextRandomnessID uint64                        `json:"nextRandomnessId"`
	Randomness       map[uint64]*RandomnessAccount `json:"randomness"`

	// Bets are keyed by BetKey(player, roundId) and kept after finalization.
	Bets map[string]*BetEntry `json:"bets"`
}

func NewState() *State {
	st := &State{Params: types.DefaultParams()}
	st.normalize()
	return st
}

func (s *State) normalize() {
	if s.Accounts == nil {
		s.Accounts = map[string]uint64{}
	}
	if s.AccountKeys == nil {
		s.AccountKeys = map[string][]byte{}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.Oracles == nil {
		s.Oracles = map[string]*Oracle{}
	}
	if s.Randomness == nil {
		s.Randomness = map[uint64]*RandomnessAccount{}
	}
	if s.Bets == nil {
		s.Bets = map[string]*BetEntry{}
	}
	if s.NextRandomnessID == 0 {
		s.NextRandomnessID = 1
	}
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.normalize()
	return &out, nil
}

func (s *State) AppHash() []byte {
	// encoding/json does not order map keys for us in a way we want to rely
	// on, so every map is flattened into a sorted slice first.
	type accountKV struct {
		Addr    string `json:"addr"`
		Balance uint64 `json:"balance"`
	}
	type accountKeyKV struct {
		Addr   string `json:"addr"`
		PubKey []byte `json:"pubKey"`
	}
	type nonceKV struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
	}

	accounts := make([]accountKV, 0, len(s.Accounts))
	for k, v := range s.Accounts {
		accounts = append(accounts, accountKV{Addr: k, Balance: v})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Addr < accounts[j].Addr })

	accountKeys := make([]accountKeyKV, 0, len(s.AccountKeys))
	for k, v := range s.AccountKeys {
		accountKeys = append(accountKeys, accountKeyKV{Addr: k, PubKey: v})
	}
	sort.Slice(accountKeys, func(i, j int) bool { return accountKeys[i].Addr < accountKeys[j].Addr })

	nonces := make([]nonceKV, 0, len(s.NonceMax))
	for k, v := range s.NonceMax {
		nonces = append(nonces, nonceKV{Signer: k, Nonce: v})
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i].Signer < nonces[j].Signer })

	oracles := make([]*Oracle, 0, len(s.Oracles))
	for _, o := range s.Oracles {
		oracles = append(oracles, o)
	}
	sort.Slice(oracles, func(i, j int) bool { return oracles[i].ID < oracles[j].ID })

	randomness := make([]*RandomnessAccount, 0, len(s.Randomness))
	for _, r := range s.Randomness {
		randomness = append(randomness, r)
	}
	sort.Slice(randomness, func(i, j int) bool { return randomness[i].ID < randomness[j].ID })

	betKeys := make([]string, 0, len(s.Bets))
	for k := range s.Bets {
		betKeys = append(betKeys, k)
	}
	sort.Strings(betKeys)
	bets := make([]*BetEntry, 0, len(betKeys))
	for _, k := range betKeys {
		bets = append(bets, s.Bets[k])
	}

	normalized := struct {
		Height           int64                `json:"height"`
		Params           types.Params         `json:"params"`
		Accounts         []accountKV          `json:"accounts"`
		AccountKeys      []accountKeyKV       `json:"accountKeys,omitempty"`
		NonceMax         []nonceKV            `json:"nonceMax,omitempty"`
		Treasury         *Treasury            `json:"treasury,omitempty"`
		Oracles          []*Oracle            `json:"oracles"`
		NextRandomnessID uint64               `json:"nextRandomnessId"`
		Randomness       []*RandomnessAccount `json:"randomness"`
		Bets             []*BetEntry          `json:"bets"`
	}{
		Height:           s.Height,
		Params:           s.Params,
		Accounts:         accounts,
		AccountKeys:      accountKeys,
		NonceMax:         nonces,
		Treasury:         s.Treasury,
		Oracles:          oracles,
		NextRandomnessID: s.NextRandomnessID,
		Randomness:       randomness,
		Bets:             bets,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}

// ---- Bank ----

func (s *State) Balance(addr string) uint64 {
	return s.Accounts[addr]
}

func (s *State) Credit(addr string, amount uint64) error {
	bal := s.Accounts[addr]
	if bal > ^uint64(0)-amount {
		return types.ErrArithmeticOverflow.Wrapf("balance overflow: have=%d add=%d", bal, amount)
	}
	s.Accounts[addr] = bal + amount
	return nil
}

func (s *State) Debit(addr string, amount uint64) error {
	bal := s.Accounts[addr]
	if bal < amount {
		return types.ErrInsufficientFunds.Wrapf("have=%d need=%d", bal, amount)
	}
	s.Accounts[addr] = bal - amount
	return nil
}

// TotalSupply sums every account and the treasury balance.
func (s *State) TotalSupply() (uint64, error) {
	var total uint64
	add := func(v uint64) error {
		if total > ^uint64(0)-v {
			return types.ErrArithmeticOverflow.Wrap("total supply overflows uint64")
		}
		total += v
		return nil
	}
	for _, bal := range s.Accounts {
		if err := add(bal); err != nil {
			return 0, err
		}
	}
	if s.Treasury != nil {
		if err := add(s.Treasury.Balance); err != nil {
			return 0, err
		}
	}
	return total, nil
}
