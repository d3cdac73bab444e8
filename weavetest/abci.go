package weavetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is the part of testing.TB the chain runner needs.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// Chain drives an abci.Application the way a tendermint node would. Each
// call to Block produces one block with its own height and time.
type Chain struct {
	t       Tester
	app     abci.Application
	chainID string
	height  int64
	clock   time.Time
}

// NewChain returns a chain with no blocks whose clock starts at genesis.
func NewChain(t Tester, app abci.Application, chainID string, genesis time.Time) *Chain {
	return &Chain{t: t, app: app, chainID: chainID, clock: genesis}
}

// Executor runs transactions inside a block.
type Executor interface {
	DeliverTx(anchortl.Tx) error
	CheckTx(anchortl.Tx) error
}

var _ Executor = (*Chain)(nil)

// TxError is a transaction rejected by the application.
type TxError struct {
	Code uint32
	Log  string
}

func (e *TxError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Log)
}

// HasCode reports whether err is a TxError with the ABCI code of kind.
func HasCode(err error, kind *errors.Error) bool {
	if e, ok := err.(*TxError); ok {
		return e.Code == kind.ABCICode()
	}
	return false
}

func (c *Chain) Height() int64 {
	return c.height
}

// Clock is the time the next block is stamped with.
func (c *Chain) Clock() time.Time {
	return c.clock
}

func (c *Chain) SetClock(t time.Time) {
	c.clock = t
}

// Genesis loads the JSON form of state as the app state of the chain. It
// fails the test unless the application state changed.
func (c *Chain) Genesis(state interface{}) {
	c.t.Helper()
	raw, err := json.Marshal(state)
	if err != nil {
		c.t.Fatalf("genesis: %s", err)
	}
	changed := c.Block(func(Executor) error {
		c.app.InitChain(abci.RequestInitChain{
			Time:          c.clock,
			ChainId:       c.chainID,
			AppStateBytes: raw,
		})
		return nil
	})
	if !changed {
		c.t.Fatalf("genesis left the state unchanged")
	}
}

func (c *Chain) CheckTx(tx anchortl.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal tx")
	}
	res := c.app.CheckTx(raw)
	return txError(res.Code, res.Log)
}

func (c *Chain) DeliverTx(tx anchortl.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal tx")
	}
	res := c.app.DeliverTx(raw)
	return txError(res.Code, res.Log)
}

func txError(code uint32, log string) error {
	if code == errors.SuccessABCICode {
		return nil
	}
	return &TxError{Code: code, Log: log}
}

// Block runs fn between BeginBlock and Commit of a new block and reports
// whether the app hash changed. An error from fn fails the test.
func (c *Chain) Block(fn func(Executor) error) bool {
	c.t.Helper()
	c.height++
	before := c.app.Info(abci.RequestInfo{}).LastBlockAppHash

	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: c.chainID, Height: c.height, Time: c.clock},
	})
	if err := fn(c); err != nil {
		c.t.Fatalf("block %d: %+v", c.height, err)
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})

	return !bytes.Equal(before, c.app.Commit().Data)
}

func (c *Chain) Query(path string, data []byte) abci.ResponseQuery {
	return c.app.Query(abci.RequestQuery{Path: path, Data: data})
}
