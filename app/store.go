package app

import (
	"encoding/json"
	"fmt"
	"strings"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state related part of abci.Application: genesis,
// block boundaries, commits and queries. BaseApp adds transactions on top.
//
// Failures in calls that carry no user input (Info, InitChain, BeginBlock,
// EndBlock and Commit) cannot be reported to tendermint and panic.
type StoreApp struct {
	name        string
	logger      log.Logger
	state       *states
	queryRouter anchortl.QueryRouter
	initializer anchortl.Initializer

	chainID string
	// app is valid for the whole lifetime, block is rebuilt on BeginBlock.
	app   anchortl.Context
	block anchortl.Context
}

// NewStoreApp loads the latest version of db. It panics if the state
// cannot be read.
func NewStoreApp(name string, db anchortl.CommitKVStore, queryRouter anchortl.QueryRouter, ctx anchortl.Context) *StoreApp {
	state, err := loadStates(db)
	if err != nil {
		panic(err)
	}
	s := &StoreApp{
		name:        name,
		state:       state,
		queryRouter: queryRouter,
		app:         ctx,
	}
	s.WithLogger(log.NewNopLogger())

	if s.chainID, err = readChainID(state.deliver); err != nil {
		panic(err)
	}
	if s.chainID != "" {
		s.app = anchortl.WithChainID(s.app, s.chainID)
	}
	id, err := state.latest()
	if err != nil {
		panic(err)
	}
	s.block = anchortl.WithHeight(s.app, id.Version)
	return s
}

// WithInit sets the genesis initializer run by InitChain.
func (s *StoreApp) WithInit(init anchortl.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the app and of every context it creates.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.app = anchortl.WithLogger(s.app, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// GetChainID returns the chain id, empty before InitChain.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// BlockContext returns the context of the current block.
func (s *StoreApp) BlockContext() anchortl.Context {
	return s.block
}

// DeliverStore is the state DeliverTx works on.
func (s *StoreApp) DeliverStore() anchortl.CacheableKVStore {
	return s.state.deliver
}

// CheckStore is the state CheckTx works on.
func (s *StoreApp) CheckStore() anchortl.CacheableKVStore {
	return s.state.check
}

// Info reports the last committed height and app hash.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	id, err := s.state.latest()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain stores the chain id and loads the app_state of the genesis
// file. It only runs once in the lifetime of a chain.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.initChain(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) initChain(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %s already initialized", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrState, "app_state missing in genesis, run init first")
	}
	var opts anchortl.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	db := s.state.deliver
	if err := writeChainID(db, chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.app = anchortl.WithChainID(s.app, chainID)
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, db)
}

// BeginBlock builds the context of a block from its header. The header
// time is the clock all transactions of the block observe.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := anchortl.WithHeader(s.app, req.Header)
	ctx = anchortl.WithHeight(ctx, req.Header.GetHeight())
	s.block = anchortl.WithBlockTime(ctx, req.Header.Time)
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit persists the deliver state and returns the new app hash.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.state.commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

/*
Query reads the last committed state. The path selects the query handler
and may end with "?prefix" to turn a key lookup into a prefix scan. Height
and Prove are ignored.

Key and Value of the response are ResultSets of the same length, holding
the keys and values of all matches.
*/
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	res, err := s.query(req.Path, req.Data)
	if err != nil {
		code, log := errors.ABCIInfo(err, false)
		return abci.ResponseQuery{Code: code, Log: log}
	}
	return res
}

func (s *StoreApp) query(fullPath string, data []byte) (abci.ResponseQuery, error) {
	var res abci.ResponseQuery
	path, mod := fullPath, ""
	if i := strings.Index(fullPath, "?"); i >= 0 {
		path, mod = fullPath[:i], fullPath[i+1:]
	}
	h := s.queryRouter.Handler(path)
	if h == nil {
		return res, errors.Wrapf(errors.ErrNotFound, "query path %q", fullPath)
	}
	id, err := s.state.latest()
	if err != nil {
		return res, err
	}
	db := s.state.committed.CacheWrap()
	defer db.Discard()

	models, err := h.Query(db, mod, data)
	if err != nil {
		return res, err
	}
	res.Height = id.Version
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return res, err
	}
	res.Value, err = ResultsFromValues(models).Marshal()
	return res, err
}
