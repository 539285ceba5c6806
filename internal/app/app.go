package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	dbm "github.com/cosmos/cosmos-db"

	"onchaindice/internal/codec"
	"onchaindice/internal/metrics"
	"onchaindice/internal/state"
	"onchaindice/internal/types"
)

const (
	AppName           = "dicebet"
	AppVersion uint64 = 1
)

type DiceApp struct {
	*abci.BaseApplication

	home    string
	logger  log.Logger
	metrics *metrics.Metrics
	store   *state.Store
	faucet  bool

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

type Option func(*DiceApp)

func WithLogger(l log.Logger) Option { return func(a *DiceApp) { a.logger = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(a *DiceApp) { a.metrics = m } }

// WithStore overrides the default goleveldb store under <home>/data.
func WithStore(s *state.Store) Option { return func(a *DiceApp) { a.store = s } }

// WithFaucet enables or disables unsigned bank/mint.
func WithFaucet(enabled bool) Option { return func(a *DiceApp) { a.faucet = enabled } }

func New(home string, opts ...Option) (*DiceApp, error) {
	a := &DiceApp{
		BaseApplication: abci.NewBaseApplication(),
		home:            home,
		faucet:          true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.NewNopLogger()
	}
	a.logger = a.logger.With("module", AppName)
	if a.metrics == nil {
		a.metrics = metrics.NewNop()
	}
	if a.store == nil {
		s, err := state.OpenStore(string(dbm.GoLevelDBBackend), filepath.Join(home, "data"))
		if err != nil {
			return nil, err
		}
		a.store = s
	}
	st, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	a.st = st
	a.lastHash = st.AppHash()
	a.observeState()
	a.logger.Info("loaded state", "height", st.Height, "appHash", fmt.Sprintf("%X", a.lastHash))
	return a, nil
}

// Close releases the underlying store.
func (a *DiceApp) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Close()
}

// Healthy reports whether the app can serve; used by /healthz.
func (a *DiceApp) Healthy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.st == nil {
		return fmt.Errorf("state not loaded")
	}
	return nil
}

func (a *DiceApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             AppName,
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *DiceApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	env, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return checkTxErr(errorsmod.Wrap(types.ErrInvalidRequest, err.Error())), nil
	}
	if !knownType(env.Type) {
		return checkTxErr(types.ErrInvalidRequest.Wrapf("unknown tx type: %s", env.Type)), nil
	}
	// Only structural checks here; auth and state checks run in FinalizeBlock.
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *DiceApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height
	nowUnix := req.Time.Unix()

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		txResults = append(txResults, a.deliverTx(txBytes, req.Height, nowUnix))
	}

	a.lastHash = a.st.AppHash()
	a.observeState()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *DiceApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Save(a.st); err != nil {
		// CometBFT expects Commit to not crash; return error so node halts loudly.
		a.logger.Error("failed to persist state", "height", a.st.Height, "err", err)
		return nil, err
	}
	a.logger.Debug("committed", "height", a.st.Height, "appHash", fmt.Sprintf("%X", a.lastHash))
	return &abci.CommitResponse{}, nil
}

// deliverTx executes one tx against a staged copy of state. The copy replaces
// live state only if the whole tx succeeds.
func (a *DiceApp) deliverTx(txBytes []byte, height int64, nowUnix int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return a.fail("", errorsmod.Wrap(types.ErrInvalidRequest, err.Error()))
	}

	staged, err := a.st.Clone()
	if err != nil {
		return a.fail(env.Type, err)
	}
	staged.Height = height

	if env.Signer != "" || len(env.Sig) != 0 {
		if err := authenticate(staged, env); err != nil {
			return a.fail(env.Type, err)
		}
	}

	res, err := a.route(staged, env, height, nowUnix)
	if err != nil {
		return a.fail(env.Type, err)
	}

	a.st = staged
	a.observeTx(env.Type, res)
	return res
}

func (a *DiceApp) route(st *state.State, env codec.TxEnvelope, height int64, nowUnix int64) (*abci.ExecTxResult, error) {
	switch env.Type {
	case codec.TypeBankMint:
		if !a.faucet {
			return nil, types.ErrUnauthorized.Wrap("bank/mint is disabled")
		}
		return handle(env, func(msg codec.BankMintTx) (*abci.ExecTxResult, error) { return bankMint(st, msg) })
	case codec.TypeBankSend:
		return handle(env, func(msg codec.BankSendTx) (*abci.ExecTxResult, error) { return bankSend(st, env, msg) })
	case codec.TypeAuthRegisterAccount:
		return handle(env, func(msg codec.AuthRegisterAccountTx) (*abci.ExecTxResult, error) {
			return authRegisterAccount(st, env, msg)
		})

	case codec.TypeTreasuryInit:
		return handle(env, func(msg codec.TreasuryInitTx) (*abci.ExecTxResult, error) { return treasuryInit(st, env, msg) })
	case codec.TypeTreasuryFund:
		return handle(env, func(msg codec.TreasuryFundTx) (*abci.ExecTxResult, error) { return treasuryFund(st, env, msg) })
	case codec.TypeTreasuryWithdraw:
		return handle(env, func(msg codec.TreasuryWithdrawTx) (*abci.ExecTxResult, error) {
			return treasuryWithdraw(st, env, msg)
		})

	case codec.TypeOracleRegister:
		return handle(env, func(msg codec.OracleRegisterTx) (*abci.ExecTxResult, error) {
			return oracleRegister(st, env, msg, height)
		})
	case codec.TypeOracleRequest:
		return handle(env, func(msg codec.OracleRequestTx) (*abci.ExecTxResult, error) {
			return oracleRequest(st, env, msg, height)
		})
	case codec.TypeOracleCommit:
		return handle(env, func(msg codec.OracleCommitTx) (*abci.ExecTxResult, error) {
			return oracleCommit(st, env, msg, height)
		})
	case codec.TypeOracleReveal:
		return handle(env, func(msg codec.OracleRevealTx) (*abci.ExecTxResult, error) {
			return oracleReveal(st, env, msg, height)
		})

	case codec.TypeDiceCommit:
		return handle(env, func(msg codec.DiceCommitTx) (*abci.ExecTxResult, error) {
			return diceCommit(st, env, msg, height, nowUnix)
		})
	case codec.TypeDiceSettle:
		return handle(env, func(msg codec.DiceSettleTx) (*abci.ExecTxResult, error) { return diceSettle(st, msg, height) })
	case codec.TypeDiceVoid:
		return handle(env, func(msg codec.DiceVoidTx) (*abci.ExecTxResult, error) { return diceVoid(st, msg, height) })

	default:
		return nil, types.ErrInvalidRequest.Wrapf("unknown tx type: %s", env.Type)
	}
}

func handle[T any](env codec.TxEnvelope, fn func(T) (*abci.ExecTxResult, error)) (*abci.ExecTxResult, error) {
	msg, err := codec.DecodeValue[T](env)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	return fn(msg)
}

func knownType(typ string) bool {
	for _, t := range codec.KnownTypes {
		if t == typ {
			return true
		}
	}
	return false
}

func (a *DiceApp) fail(typ string, err error) *abci.ExecTxResult {
	res := errResult(err)
	a.metrics.Txs.WithLabelValues(typ, "error").Inc()
	a.metrics.TxErrors.WithLabelValues(res.Info).Inc()
	a.logger.Debug("tx failed", "type", typ, "kind", res.Info, "err", err)
	return res
}

func errResult(err error) *abci.ExecTxResult {
	codespace, code, logMsg := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{
		Code:      code,
		Codespace: codespace,
		Log:       logMsg,
		Info:      types.KindOf(err),
	}
}

func checkTxErr(err error) *abci.CheckTxResponse {
	codespace, code, logMsg := errorsmod.ABCIInfo(err, false)
	return &abci.CheckTxResponse{Code: code, Codespace: codespace, Log: logMsg, Info: types.KindOf(err)}
}

func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	ev := abci.Event{Type: typ}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return &abci.ExecTxResult{
		Code:   0,
		Events: []abci.Event{ev},
	}
}
