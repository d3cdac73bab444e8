/*
Package iavl persists the application state in an iavl merkle tree. Each
block saves the working tree as a new version whose root hash is the
application hash reported to tendermint.
*/
package iavl

import (
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore is a versioned merkle tree. Reads through Get see the last
// saved version, writes go to the working tree until Commit.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore opens or creates the goleveldb database name in dir.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
	}
	return NewCommitStoreFromDB(db), nil
}

// NewMemCommitStore returns a store that is lost on exit.
func NewMemCommitStore() CommitStore {
	return NewCommitStoreFromDB(dbm.NewMemDB())
}

func NewCommitStoreFromDB(db dbm.DB) CommitStore {
	return CommitStore{tree: iavl.NewMutableTree(db, DefaultCacheSize)}
}

func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit saves the working tree as the next version.
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion restores the last fully saved version.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (s CommitStore) LatestVersion() (store.CommitID, error) {
	id := store.CommitID{Version: s.tree.Version(), Hash: s.tree.Hash()}
	return id, nil
}

// CacheWrap buffers writes in a btree in front of the working tree.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter exposes the working tree as a store. Writes are visible to the
// next Commit.
func (s CommitStore) Adapter() store.CacheableKVStore {
	return workingTree{s.tree}
}

type workingTree struct {
	*iavl.MutableTree
}

var _ store.CacheableKVStore = workingTree{}

func (w workingTree) Get(key []byte) ([]byte, error) {
	_, val := w.MutableTree.Get(key)
	return val, nil
}

func (w workingTree) Has(key []byte) (bool, error) {
	return w.MutableTree.Has(key), nil
}

func (w workingTree) Set(key, value []byte) error {
	w.MutableTree.Set(key, value)
	return nil
}

func (w workingTree) Delete(key []byte) error {
	w.MutableTree.Remove(key)
	return nil
}

func (w workingTree) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(w)
}

func (w workingTree) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(w, w.NewBatch(), nil)
}

func (w workingTree) Iterator(start, end []byte) (store.Iterator, error) {
	return w.scan(start, end, true), nil
}

func (w workingTree) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return w.scan(start, end, false), nil
}

// scan loads all pairs in [start, end) so the tree may be written while
// the iterator is open.
func (w workingTree) scan(start, end []byte, ascending bool) store.Iterator {
	var models []store.Model
	w.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(models)
}
