package store

import anchortl "github.com/cqfd/anchor-tl"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = anchortl.ReadOnlyKVStore
type SetDeleter = anchortl.SetDeleter
type KVStore = anchortl.KVStore
type Batch = anchortl.Batch
type Iterator = anchortl.Iterator
type CacheableKVStore = anchortl.CacheableKVStore
type KVCacheWrap = anchortl.KVCacheWrap
type CommitKVStore = anchortl.CommitKVStore
type CommitID = anchortl.CommitID
type Model = anchortl.Model
