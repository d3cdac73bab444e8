package store

// SliceIterator iterates over models that are already loaded in memory.
type SliceIterator struct {
	models []Model
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns an iterator over models in the given order.
func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Valid() bool {
	return len(s.models) > 0
}

// Next panics when the iterator is exhausted.
func (s *SliceIterator) Next() error {
	s.head()
	s.models = s.models[1:]
	return nil
}

func (s *SliceIterator) Key() []byte {
	return s.head().Key
}

func (s *SliceIterator) Value() []byte {
	return s.head().Value
}

func (s *SliceIterator) Close() {
	s.models = nil
}

func (s *SliceIterator) head() Model {
	if len(s.models) == 0 {
		panic("iterator exhausted")
	}
	return s.models[0]
}

// emptyStore holds nothing and drops every write. It is the bottom layer of
// MemStore.
type emptyStore struct{}

var _ KVStore = emptyStore{}

func (emptyStore) Get([]byte) ([]byte, error) { return nil, nil }
func (emptyStore) Has([]byte) (bool, error) { return false, nil }
func (emptyStore) Set(_, _ []byte) error { return nil }
func (emptyStore) Delete([]byte) error { return nil }
func (e emptyStore) NewBatch() Batch { return NewNonAtomicBatch(e) }
func (emptyStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}
func (emptyStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// write is a pending batch operation.
type write struct {
	key   []byte
	value []byte
	del   bool
}

// NonAtomicBatch queues writes and replays them on the target in order.
// The replay can fail half way, so it only fits in memory stores and
// caches.
type NonAtomicBatch struct {
	out    SetDeleter
	writes []write
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing into out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.writes = append(b.writes, write{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.writes = append(b.writes, write{key: key, del: true})
	return nil
}

// Write replays the queued writes and resets the batch.
func (b *NonAtomicBatch) Write() error {
	writes := b.writes
	b.writes = nil
	for _, w := range writes {
		var err error
		if w.del {
			err = b.out.Delete(w.key)
		} else {
			err = b.out.Set(w.key, w.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of queued writes.
func (b *NonAtomicBatch) Len() int {
	return len(b.writes)
}
