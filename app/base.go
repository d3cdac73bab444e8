package app

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a complete abci.Application. Transactions are decoded and
// passed to the handler, everything else is done by the StoreApp.
type BaseApp struct {
	*StoreApp
	decode  anchortl.TxDecoder
	handler anchortl.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application. In debug mode error responses carry
// the full error with its stacktrace.
func NewBaseApp(store *StoreApp, decoder anchortl.TxDecoder, handler anchortl.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decode: decoder, handler: handler, debug: debug}
}

func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return anchortl.DeliverTxError(err, b.debug)
	}
	ctx := b.txContext("deliver_tx", tx)
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return anchortl.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return anchortl.CheckTxError(err, b.debug)
	}
	ctx := b.txContext("check_tx", tx)
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return anchortl.CheckOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx anchortl.Tx) anchortl.Context {
	return anchortl.WithLogInfo(b.BlockContext(), "call", call, "path", anchortl.GetPath(tx))
}

// decodeTx turns a panicking decoder into an error.
func (b BaseApp) decodeTx(raw []byte) (tx anchortl.Tx, err error) {
	defer errors.Recover(&err)
	return b.decode(raw)
}
