package store

import "bytes"

// mergeIterator walks cached entries and a parent iterator side by side.
// On equal keys the cached entry wins and deleted entries are skipped.
type mergeIterator struct {
	cached    []entry
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []entry, parent Iterator, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{cached: cached, parent: parent, ascending: ascending}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// cmp compares the heads of both sides in iteration order. A negative
// result means the parent comes first, a positive one the cache.
func (m *mergeIterator) cmp() int {
	switch hasCache, hasParent := len(m.cached) > 0, m.parentValid(); {
	case !hasCache && !hasParent:
		panic("iterator exhausted")
	case !hasCache:
		return -1
	case !hasParent:
		return 1
	}
	c := bytes.Compare(m.parent.Key(), m.cached[0].key)
	if !m.ascending {
		c = -c
	}
	return c
}

func (m *mergeIterator) parentValid() bool {
	return m.parent != nil && m.parent.Valid()
}

func (m *mergeIterator) Valid() bool {
	return len(m.cached) > 0 || m.parentValid()
}

func (m *mergeIterator) Next() error {
	if err := m.advance(); err != nil {
		return err
	}
	return m.skipDeleted()
}

// advance moves past the current head. When both sides hold the same key
// both are moved.
func (m *mergeIterator) advance() error {
	c := m.cmp()
	if c >= 0 {
		m.cached = m.cached[1:]
	}
	if c <= 0 {
		return m.parent.Next()
	}
	return nil
}

func (m *mergeIterator) skipDeleted() error {
	for m.Valid() && m.cmp() >= 0 && m.cached[0].deleted {
		if err := m.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (m *mergeIterator) Key() []byte {
	if m.cmp() >= 0 {
		return m.cached[0].key
	}
	return m.parent.Key()
}

func (m *mergeIterator) Value() []byte {
	if m.cmp() >= 0 {
		return m.cached[0].value
	}
	return m.parent.Value()
}

func (m *mergeIterator) Close() {
	if m.parent != nil {
		m.parent.Close()
	}
	m.cached = nil
}
