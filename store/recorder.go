package store

// Recorder exposes the writes seen by a store built with NewRecordingStore.
type Recorder interface {
	// KVPairs maps every key written so far to its last value. Deleted
	// keys map to nil.
	KVPairs() map[string][]byte
}

// NewRecordingStore wraps db and records every write that reaches it. When
// db can be cache wrapped so can the result, and cached writes are recorded
// once the cache is written.
func NewRecordingStore(db KVStore) KVStore {
	r := &recordingStore{KVStore: db, changes: make(map[string][]byte)}
	if _, ok := db.(CacheableKVStore); ok {
		return cacheableRecorder{r}
	}
	return r
}

type recordingStore struct {
	KVStore
	changes map[string][]byte
}

var _ Recorder = (*recordingStore)(nil)

func (r *recordingStore) KVPairs() map[string][]byte {
	return r.changes
}

func (r *recordingStore) Set(key, value []byte) error {
	if err := r.KVStore.Set(key, value); err != nil {
		return err
	}
	r.changes[string(key)] = value
	return nil
}

func (r *recordingStore) Delete(key []byte) error {
	if err := r.KVStore.Delete(key); err != nil {
		return err
	}
	r.changes[string(key)] = nil
	return nil
}

// NewBatch replays through Set and Delete so batched writes are recorded
// when the batch is written.
func (r *recordingStore) NewBatch() Batch {
	return NewNonAtomicBatch(r)
}

type cacheableRecorder struct {
	*recordingStore
}

var _ CacheableKVStore = cacheableRecorder{}

func (r cacheableRecorder) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}
