package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/cmd/timelockd/app"
	"github.com/cqfd/anchor-tl/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	home     = flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".timelockd"), "directory holding the genesis file and the database")
	logLevel = flag.String("log_level", "info", "lowest level logged, one of debug, info, error or none")
)

const usage = `timelockd - timelock escrow node

Usage: timelockd [flags] <command> [args]

Commands:
  init      write the app state of a fresh chain into the genesis file
  start     run the ABCI server
  validate  check the app state of one or more genesis files
  keys      derive an ed25519 key from a hex seed
  version   print the version
  help      print this message

Flags:
`

func printUsage() {
	fmt.Fprint(os.Stderr, usage)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() == 0 {
		printUsage()
		os.Exit(2)
	}

	level, err := log.AllowLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log_level: %s\n", err)
		os.Exit(2)
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), level).
		With("module", app.Name)

	if err := run(logger, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "timelockd %s: %+v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}

func run(logger log.Logger, cmd string, args []string) error {
	switch cmd {
	case "init":
		return server.InitCmd(app.GenInitOptions, logger, *home, args)
	case "start":
		return server.StartCmd(app.GenerateApp, logger, *home, args)
	case "validate":
		return server.ValidateGenesis(app.Initializer(), args)
	case "keys":
		return cmdKeys(os.Stdout, args)
	case "version":
		fmt.Println(anchortl.Version())
		return nil
	case "help":
		printUsage()
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}
