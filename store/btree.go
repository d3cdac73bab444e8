package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the number of btree nodes kept for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// MemStore returns an in memory store without persistence. It is a cache
// over an always empty store that is never written.
func MemStore() CacheableKVStore {
	var empty emptyStore
	return NewBTreeCacheWrap(empty, NewNonAtomicBatch(empty), nil)
}

// BTreeCacheWrap keeps the writes of a transaction in a btree on top of a
// parent store. Reads see the cached writes first. Write replays them in
// key order on the parent through the batch, Discard drops them.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over parent. All writes must go
// through batch, parent is only read. The free list may be shared between
// nested caches, nil allocates a new one.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:   btree.NewWithFreeList(2, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// CacheWrap stacks another cache on top of this one.
func (c BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

// NewBatch returns a batch writing into this cache.
func (c BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes all cached changes to the parent and empties the cache.
func (c BTreeCacheWrap) Write() error {
	var err error
	c.tree.Ascend(func(item btree.Item) bool {
		e := item.(entry)
		if e.deleted {
			err = c.batch.Delete(e.key)
		} else {
			err = c.batch.Set(e.key, e.value)
		}
		return err == nil
	})
	c.Discard()
	if err != nil {
		return err
	}
	return c.batch.Write()
}

// Discard empties the cache, returning its nodes to the free list.
func (c BTreeCacheWrap) Discard() {
	c.tree.Clear(true)
}

func (c BTreeCacheWrap) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(entry{key: key, value: value})
	return nil
}

func (c BTreeCacheWrap) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return nil
}

func (c BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := c.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

func (c BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := c.lookup(key); ok {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := c.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Iterator returns the keys in [start, end) in ascending order, merging
// the cache with the parent.
func (c BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(c.entries(start, end), parent, true)
}

// ReverseIterator returns the keys in [start, end) in descending order,
// merging the cache with the parent.
func (c BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	cached := c.entries(start, end)
	for i, j := 0, len(cached)-1; i < j; i, j = i+1, j-1 {
		cached[i], cached[j] = cached[j], cached[i]
	}
	return newMergeIterator(cached, parent, false)
}

// entries returns a snapshot of the cached entries in [start, end) in
// ascending order. A nil bound is open.
func (c BTreeCacheWrap) entries(start, end []byte) []entry {
	var res []entry
	collect := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		c.tree.Ascend(collect)
	case start == nil:
		c.tree.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		c.tree.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		c.tree.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return res
}

// entry is a cached write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
