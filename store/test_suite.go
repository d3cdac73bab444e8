package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/weavetest/assert"
)

// TestStoreConstructor returns an empty store and the function releasing
// it after a test.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// TestSuite holds the checks every CacheableKVStore must pass. A store
// implementation runs them from its own tests with a constructor.
type TestSuite struct {
	open TestStoreConstructor
}

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{open: constructor}
}

// GetSet checks reads and writes through one cache layer.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.open()
	defer cleanup()

	receiver := anchortl.Pair([]byte("receiver"), []byte("alice"))
	unlock := anchortl.Pair([]byte("unlock"), []byte("4600"))
	custody := anchortl.Pair([]byte("custody"), []byte("100"))

	expectMissing(t, base, receiver.Key)
	assert.Nil(t, set(receiver)(base))
	expectValue(t, base, receiver)

	cache := base.CacheWrap()
	expectValue(t, cache, receiver)
	assert.Nil(t, set(unlock)(cache))
	expectValue(t, cache, unlock)
	expectMissing(t, base, unlock.Key)

	assert.Nil(t, cache.Write())
	expectValue(t, base, receiver)
	expectValue(t, base, unlock)

	dropped := base.CacheWrap()
	assert.Nil(t, set(custody)(dropped))
	dropped.Discard()
	expectMissing(t, base, custody.Key)

	remove := base.CacheWrap()
	assert.Nil(t, del(receiver.Key)(remove))
	expectMissing(t, remove, receiver.Key)
	expectValue(t, base, receiver)
	assert.Nil(t, remove.Write())
	expectMissing(t, base, receiver.Key)
	expectValue(t, base, unlock)
}

// CacheConflicts checks a cache overriding and deleting values of its
// parent.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	m := randModels(6, 16, 32)
	// same keys, new values
	n := randModels(6, 16, 32)
	for i := range n {
		n[i].Key = m[i].Key
	}

	cases := map[string]struct {
		parent     []op
		child      []op
		parentSees []Model
		childSees  []Model
	}{
		"overwrite, delete and insert": {
			parent:     []op{set(m[0]), set(m[1])},
			child:      []op{set(n[0]), set(m[2]), del(m[1].Key)},
			parentSees: []Model{m[0], m[1], missing(m[2])},
			childSees:  []Model{n[0], missing(m[1]), m[2]},
		},
		"delete and recreate": {
			parent:     []op{set(m[3])},
			child:      []op{del(m[3].Key), set(n[3])},
			parentSees: []Model{m[3]},
			childSees:  []Model{n[3]},
		},
		"delete a key the parent never had": {
			child:      []op{del(m[4].Key)},
			parentSees: []Model{missing(m[4])},
			childSees:  []Model{missing(m[4])},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.open()
			defer cleanup()
			apply(t, parent, tc.parent)
			child := parent.CacheWrap()
			apply(t, child, tc.child)

			expectAll(t, parent, tc.parentSees)
			expectAll(t, child, tc.childSees)
			assert.Nil(t, child.Write())
			expectAll(t, parent, tc.childSees)
		})
	}
}

// FuzzIterator iterates random data spread over a parent and a cache.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 50

	child := randModels(size, 8, 40)
	parent := randModels(size, 8, 40)
	// deleting unknown keys must not show up anywhere
	childOps := append(sets(child), dels(randModels(20, 8, 40))...)
	parentOps := append(sets(parent), dels(randModels(20, 8, 40))...)

	only := sortModels(child)
	all := sortModels(append(child, parent...))

	ranges := func(m []Model) []scan {
		return []scan{
			{want: m},
			{from: m[10].Key, want: m[10:]},
			{to: m[size-8].Key, want: m[:size-8]},
			{from: m[17].Key, to: m[28].Key, want: m[17:28]},
			{desc: true, want: reverse(m)},
			{from: m[34].Key, desc: true, want: reverse(m[34:])},
			{to: m[19].Key, desc: true, want: reverse(m[:19])},
			{from: m[6].Key, to: m[26].Key, desc: true, want: reverse(m[6:26])},
		}
	}

	cases := map[string]layers{
		"cache over an empty parent": {child: childOps, scans: ranges(only)},
		"cache over a filled parent": {parent: parentOps, child: childOps, scans: ranges(all)},
	}
	s.runLayers(t, cases)
}

// IteratorWithConflicts iterates where the cache overrides or deletes
// parent keys.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	m := randModels(6, 20, 100)
	a, a2, b, b2, c, d := m[0], m[1], m[2], m[3], m[4], m[5]
	a2.Key = a.Key
	b2.Key = b.Key

	abc := sortModels([]Model{a, b, c})
	replaced := sortModels([]Model{a2, b2, c, d})

	cases := map[string]layers{
		"cache only": {
			child: sets([]Model{a, b, c}),
			scans: []scan{
				{want: abc},
				{from: abc[1].Key, to: abc[2].Key, want: abc[1:2]},
				{desc: true, want: reverse(abc)},
			},
		},
		"parent only": {
			parent: sets([]Model{a, b, c}),
			scans: []scan{
				{want: abc},
				{from: abc[1].Key, to: abc[2].Key, want: abc[1:2]},
				{desc: true, want: reverse(abc)},
			},
		},
		"split between both": {
			parent: sets([]Model{a, b}),
			child:  sets([]Model{c}),
			scans: []scan{
				{want: abc},
				{desc: true, want: reverse(abc)},
			},
		},
		"cache values win": {
			parent: sets([]Model{a, b, c}),
			child:  sets([]Model{a2, b2, d}),
			scans: []scan{
				{want: replaced},
				{from: replaced[1].Key, to: replaced[3].Key, want: replaced[1:3]},
				{desc: true, want: reverse(replaced)},
			},
		},
		"deletes are hidden": {
			parent: sets([]Model{a, c, d}),
			child:  dels([]Model{a, b, d}),
			scans: []scan{
				{want: []Model{c}},
				{desc: true, want: []Model{c}},
				{to: c.Key, want: nil},
			},
		},
	}
	s.runLayers(t, cases)
}

// AssertGetHas checks Get and Has agree with the expected value.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if (val == nil) != (got == nil) || !bytes.Equal(val, got) {
		t.Fatalf("key %X: want %X, got %X", key, val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// op is a single write used to prepare a store.
type op func(SetDeleter) error

func set(m Model) op {
	return func(kv SetDeleter) error { return kv.Set(m.Key, m.Value) }
}

func del(key []byte) op {
	return func(kv SetDeleter) error { return kv.Delete(key) }
}

func sets(ms []Model) []op {
	res := make([]op, len(ms))
	for i, m := range ms {
		res[i] = set(m)
	}
	return res
}

func dels(ms []Model) []op {
	res := make([]op, len(ms))
	for i, m := range ms {
		res[i] = del(m.Key)
	}
	return res
}

func apply(t testing.TB, kv SetDeleter, ops []op) {
	t.Helper()
	for _, o := range ops {
		assert.Nil(t, o(kv))
	}
}

// missing is a model expected to be absent.
func missing(m Model) Model {
	return anchortl.Pair(m.Key, nil)
}

func expectValue(t testing.TB, kv ReadOnlyKVStore, m Model) {
	t.Helper()
	var s TestSuite
	s.AssertGetHas(t, kv, m.Key, m.Value, true)
}

func expectMissing(t testing.TB, kv ReadOnlyKVStore, key []byte) {
	t.Helper()
	var s TestSuite
	s.AssertGetHas(t, kv, key, nil, false)
}

func expectAll(t testing.TB, kv ReadOnlyKVStore, ms []Model) {
	t.Helper()
	for _, m := range ms {
		if m.Value == nil {
			expectMissing(t, kv, m.Key)
		} else {
			expectValue(t, kv, m)
		}
	}
}

// layers prepares a parent and a cache over it, then runs the scans on
// the cache.
type layers struct {
	parent []op
	child  []op
	scans  []scan
}

// scan is a range query with its expected result. Nil bounds are open.
type scan struct {
	from, to []byte
	desc     bool
	want     []Model
}

func (s *TestSuite) runLayers(t *testing.T, cases map[string]layers) {
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.open()
			defer cleanup()
			apply(t, base, tc.parent)
			child := base.CacheWrap()
			apply(t, child, tc.child)
			for _, q := range tc.scans {
				q.check(t, child)
			}
		})
	}
}

func (q scan) check(t testing.TB, kv ReadOnlyKVStore) {
	t.Helper()
	var (
		iter Iterator
		err  error
	)
	if q.desc {
		iter, err = kv.ReverseIterator(q.from, q.to)
	} else {
		iter, err = kv.Iterator(q.from, q.to)
	}
	assert.Nil(t, err)
	defer iter.Close()

	var got []Model
	for ; iter.Valid(); assert.Nil(t, iter.Next()) {
		got = append(got, anchortl.Pair(iter.Key(), iter.Value()))
	}
	if len(got) != len(q.want) {
		t.Fatalf("want %d models, got %d", len(q.want), len(got))
	}
	for i, m := range got {
		if !bytes.Equal(q.want[i].Key, m.Key) || !bytes.Equal(q.want[i].Value, m.Value) {
			t.Fatalf("model %d: want %X=%X, got %X=%X", i, q.want[i].Key, q.want[i].Value, m.Key, m.Value)
		}
	}
}

func randModels(count, keySize, valueSize int) []Model {
	res := make([]Model, count)
	for i := range res {
		res[i] = anchortl.Pair(randBytes(keySize), randBytes(valueSize))
	}
	return res
}

func randBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

func reverse(ms []Model) []Model {
	res := make([]Model, len(ms))
	for i, m := range ms {
		res[len(ms)-1-i] = m
	}
	return res
}

func sortModels(ms []Model) []Model {
	res := append([]Model(nil), ms...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}
