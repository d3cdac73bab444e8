package app

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore reads the committed state of an application through raw "/"
// queries. Clients use it to load models by key the same way handlers do.
type ABCIStore struct {
	app abci.Application
}

var _ anchortl.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

func (a *ABCIStore) query(path string, data []byte) (abci.ResponseQuery, error) {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != 0 {
		return res, errors.Wrapf(errors.ErrDatabase, "query %s: code %d: %s", path, res.Code, res.Log)
	}
	return res, nil
}

// Get returns the value of key, nil when missing.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	res, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	var values ResultSet
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	switch n := len(values.Results); n {
	case 0:
		return nil, nil
	case 1:
		return values.Results[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d values for one key", n)
	}
}

func (a *ABCIStore) Has(key []byte) (bool, error) {
	val, err := a.Get(key)
	return len(val) != 0, err
}

// Iterator only supports listing the whole store.
func (a *ABCIStore) Iterator(start, end []byte) (anchortl.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "only full range iteration is supported")
	}
	res, err := a.query("/?"+anchortl.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	models, err := toModels(res.Key, res.Value)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) ReverseIterator(start, end []byte) (anchortl.Iterator, error) {
	return nil, errors.Wrap(errors.ErrHuman, "reverse iteration is not supported")
}
