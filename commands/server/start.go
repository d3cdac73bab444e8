package server

import (
	"flag"

	"github.com/cqfd/anchor-tl/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator builds the application once the home directory, the
// logger and the debug flag are known.
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

type startConfig struct {
	bind  string
	debug bool
}

func parseStart(args []string) (startConfig, error) {
	cfg := startConfig{}
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.StringVar(&cfg.bind, "bind", "tcp://localhost:26658", "address of the ABCI socket")
	fs.BoolVar(&cfg.debug, "debug", false, "return stack traces in failed tx logs")
	if err := fs.Parse(args); err != nil {
		return cfg, errors.Wrap(errors.ErrInput, err.Error())
	}
	return cfg, nil
}

// StartCmd serves the generated application on an ABCI socket and blocks
// until the process receives SIGINT or SIGTERM.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	cfg, err := parseStart(args)
	if err != nil {
		return err
	}
	app, err := gen(home, logger, cfg.debug)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg.bind, "socket", app)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", cfg.bind)
	}
	srv.SetLogger(logger.With("module", "abci-server"))
	if err := srv.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}
	logger.Info("serving ABCI", "bind", cfg.bind, "debug", cfg.debug)

	cmn.TrapSignal(func() {
		logger.Info("shutting down")
		srv.Stop()
	})
	return nil
}
