package app

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"onchaindice/internal/randomness"
	"onchaindice/internal/rules"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
)

// Query paths:
//   - /account/<addr>
//   - /params
//   - /treasury
//   - /bet/<player>/<roundId>
//   - /randomness/<id>
//   - /oracle/<id>
func (a *DiceApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, err := a.query(strings.TrimSpace(req.Path))
	if err != nil {
		codespace, code, logMsg := errorsmod.ABCIInfo(err, false)
		return &abci.QueryResponse{Code: code, Codespace: codespace, Log: logMsg, Info: types.KindOf(err), Height: a.st.Height}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return &abci.QueryResponse{Code: 1, Log: err.Error(), Height: a.st.Height}, nil
	}
	return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
}

type treasuryView struct {
	*state.Treasury
	Available uint64 `json:"available"`
	MaxStake  uint64 `json:"maxStake"`
}

type randomnessView struct {
	*state.RandomnessAccount
	Poll randomness.Status `json:"poll"`
}

func (a *DiceApp) query(path string) (any, error) {
	st := a.st
	switch {
	case path == "/params":
		return st.Params, nil
	case path == "/treasury":
		if st.Treasury == nil {
			return nil, types.ErrTreasuryNotInitialized
		}
		avail := st.Treasury.Available()
		return treasuryView{Treasury: st.Treasury, Available: avail, MaxStake: rules.MaxStake(avail, st.Params)}, nil
	case strings.HasPrefix(path, "/account/"):
		addr := strings.TrimPrefix(path, "/account/")
		return map[string]any{"addr": addr, "balance": st.Balance(addr), "nonce": st.NonceMax[addr]}, nil
	case strings.HasPrefix(path, "/bet/"):
		rest := strings.TrimPrefix(path, "/bet/")
		i := strings.LastIndex(rest, "/")
		if i <= 0 {
			return nil, types.ErrInvalidRequest.Wrap("want /bet/<player>/<roundId>")
		}
		roundID, err := strconv.ParseUint(rest[i+1:], 10, 64)
		if err != nil {
			return nil, types.ErrInvalidRequest.Wrapf("invalid round id %q", rest[i+1:])
		}
		bet, ok := st.Bets[state.BetKey(rest[:i], roundID)]
		if !ok {
			return nil, types.ErrRoundNotFound.Wrapf("round %s", rest)
		}
		return bet, nil
	case strings.HasPrefix(path, "/randomness/"):
		raw := strings.TrimPrefix(path, "/randomness/")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, types.ErrInvalidRequest.Wrapf("invalid randomness id %q", raw)
		}
		acct, ok := st.Randomness[id]
		if !ok {
			return nil, types.ErrRandomnessNotFound.Wrapf("randomness %d", id)
		}
		return randomnessView{RandomnessAccount: acct, Poll: randomness.StatusAt(acct, st.Height)}, nil
	case strings.HasPrefix(path, "/oracle/"):
		id := strings.TrimPrefix(path, "/oracle/")
		o, ok := st.Oracles[id]
		if !ok {
			return nil, types.ErrOracleNotFound.Wrapf("oracle %q", id)
		}
		return o, nil
	default:
		return nil, types.ErrInvalidRequest.Wrapf("unknown query path %q", path)
	}
}
