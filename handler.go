package anchortl

import "encoding/json"

// Handler processes the messages of one route, such as a token transfer
// or a timelock unlock. Check validates a transaction for the mempool,
// Deliver executes it in a block.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around the next handler of a chain. It may change the
// context or the store, or stop the call.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message paths to handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the app_state of the genesis file, one JSON document per
// extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the section key into obj. A missing section leaves
// obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

func ChainInitializers(inits ...Initializer) Initializer {
	return MultiInitializer(inits)
}

// MultiInitializer runs initializers in order and stops at the first
// error.
type MultiInitializer []Initializer

var _ Initializer = MultiInitializer(nil)

func (m MultiInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, init := range m {
		if err := init.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
