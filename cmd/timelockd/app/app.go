/*
Package app assembles the timelockd node: the decorator stack, the token
and timelock handlers, the queries they serve and the store they run on.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/app"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/orm"
	"github.com/cqfd/anchor-tl/store/iavl"
	"github.com/cqfd/anchor-tl/x"
	"github.com/cqfd/anchor-tl/x/sigs"
	"github.com/cqfd/anchor-tl/x/timelock"
	"github.com/cqfd/anchor-tl/x/token"
	"github.com/cqfd/anchor-tl/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name of the node. The database directory is named after it.
const Name = "timelockd"

// auth grants the conditions of verified ed25519 signatures.
func auth() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// decorators run around every handler, outermost first.
func decorators() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewKeyTagger(),
		utils.NewActionTagger(),
		// a failed CheckTx leaves no trace
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// a failed DeliverTx still consumes the signer nonces
		utils.NewSavepoint().OnDeliver(),
	)
}

func routes(a x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := token.NewController()
	token.RegisterRoutes(r, a, ctrl)
	timelock.RegisterRoutes(r, a, ctrl)
	return r
}

// queries serves "/accounts", "/timelocks", "/auth" and the raw store
// under "/".
func queries() anchortl.QueryRouter {
	qr := anchortl.NewQueryRouter()
	qr.RegisterAll(
		token.RegisterQuery,
		timelock.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return qr
}

// Initializer reads the "token" section of the genesis app state.
func Initializer() anchortl.Initializer {
	return anchortl.ChainInitializers(token.Initializer{})
}

// openStore opens the iavl store at dbPath, or an in memory one if the
// path is empty. A ".db" suffix on the path is ignored.
func openStore(dbPath string) (anchortl.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q", dbPath)
	}
	abs = strings.TrimSuffix(abs, filepath.Ext(abs))
	return iavl.NewCommitStore(filepath.Dir(abs), filepath.Base(abs))
}

// GenerateApp builds the node application with its data under home. An
// empty home keeps all state in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, Name+".db")
	}
	kv, err := openStore(dbPath)
	if err != nil {
		return nil, err
	}

	st := app.NewStoreApp(Name, kv, queries(), context.Background()).
		WithInit(Initializer()).
		WithLogger(logger)
	h := decorators().WithHandler(routes(auth()))
	return app.NewBaseApp(st, TxDecoder, h, debug), nil
}
