package app

import (
	"context"
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"onchaindice/internal/state"
	"onchaindice/internal/types"
	"onchaindice/internal/vrf"
)

// GenesisState is the optional app_state of genesis.json.
type GenesisState struct {
	Params   *types.Params     `json:"params,omitempty"`
	Accounts map[string]uint64 `json:"accounts,omitempty"`
	Treasury *GenesisTreasury  `json:"treasury,omitempty"`
	Oracles  []GenesisOracle   `json:"oracles,omitempty"`
}

type GenesisTreasury struct {
	Authority string `json:"authority"`
	Balance   uint64 `json:"balance"`
}

type GenesisOracle struct {
	ID     string `json:"id"`
	PubKey []byte `json:"pubKey"`
}

func (a *DiceApp) InitChain(_ context.Context, req *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(req.AppStateBytes) == 0 {
		return &abci.InitChainResponse{}, nil
	}
	if a.st.Height != 0 {
		return nil, fmt.Errorf("init chain on non-empty state at height %d", a.st.Height)
	}
	var gen GenesisState
	if err := json.Unmarshal(req.AppStateBytes, &gen); err != nil {
		return nil, fmt.Errorf("decode app state: %w", err)
	}
	if err := applyGenesis(a.st, gen); err != nil {
		return nil, err
	}
	a.lastHash = a.st.AppHash()
	a.logger.Info("applied genesis", "accounts", len(gen.Accounts), "oracles", len(gen.Oracles), "params", a.st.Params.String())
	return &abci.InitChainResponse{AppHash: a.lastHash}, nil
}

func applyGenesis(st *state.State, gen GenesisState) error {
	if gen.Params != nil {
		if err := gen.Params.Validate(); err != nil {
			return err
		}
		st.Params = *gen.Params
	}
	var supply uint64
	for addr, bal := range gen.Accounts {
		if addr == "" {
			return types.ErrInvalidRequest.Wrap("genesis account with empty address")
		}
		var err error
		if supply, err = addUint64Checked(supply, bal, "genesis supply"); err != nil {
			return err
		}
		st.Accounts[addr] = bal
	}
	if gen.Treasury != nil {
		tr, err := state.NewTreasury(gen.Treasury.Authority)
		if err != nil {
			return err
		}
		if _, err := addUint64Checked(supply, gen.Treasury.Balance, "genesis supply"); err != nil {
			return err
		}
		tr.Balance = gen.Treasury.Balance
		st.Treasury = tr
	}
	for _, o := range gen.Oracles {
		pub, err := vrf.PointFromCanonical(o.PubKey)
		if err != nil {
			return types.ErrInvalidRequest.Wrapf("genesis oracle %q: %v", o.ID, err)
		}
		if pub.IsIdentity() {
			return types.ErrInvalidRequest.Wrapf("genesis oracle %q: vrf pubKey is the identity", o.ID)
		}
		if o.ID == "" {
			return types.ErrInvalidRequest.Wrap("genesis oracle with empty id")
		}
		if _, dup := st.Oracles[o.ID]; dup {
			return types.ErrInvalidRequest.Wrapf("duplicate genesis oracle %q", o.ID)
		}
		st.Oracles[o.ID] = &state.Oracle{ID: o.ID, PubKey: pub.Bytes()}
	}
	return nil
}
