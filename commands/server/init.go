package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/cqfd/anchor-tl/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions builds the app_state of a new chain from the init arguments.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc keeps every top level field of a tendermint genesis file as
// raw JSON, so only app_state is touched when it is written back.
type GenesisDoc map[string]json.RawMessage

// GenesisFile is where tendermint init puts the genesis file below home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd writes the generated app_state into the genesis file created
// by tendermint init. A file that already has an app_state is left alone
// unless -f is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	force := fs.Bool("f", false, "replace an existing app_state")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	path := GenesisFile(home)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", path)
	}
	state, err := gen(fs.Args())
	if err != nil {
		return err
	}
	if err := writeAppState(path, state, *force); err != nil {
		return err
	}
	logger.Info("app_state written", "path", path)
	return nil
}

func writeAppState(path string, state json.RawMessage, force bool) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}
	if prev := doc[appStateKey]; !force && len(prev) > 0 && string(prev) != "null" {
		return errors.Wrap(errors.ErrDuplicate, "app_state present, use -f to replace it")
	}
	doc[appStateKey] = state

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode genesis")
	}
	return ioutil.WriteFile(path, out, 0600)
}
