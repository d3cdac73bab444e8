package store

import (
	"testing"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/stretchr/testify/assert"
)

func TestSliceIterator(t *testing.T) {
	models := []Model{
		anchortl.Pair([]byte("a"), []byte("1")),
		anchortl.Pair([]byte("b"), []byte("2")),
	}
	iter := NewSliceIterator(models)
	var keys []string
	for ; iter.Valid(); assert.NoError(t, iter.Next()) {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Panics(t, func() { iter.Key() })
	iter.Close()
	assert.False(t, iter.Valid())
}

func TestEmptyStore(t *testing.T) {
	var e emptyStore
	assert.NoError(t, e.Set([]byte("k"), []byte("v")))
	v, err := e.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Nil(t, v)
	iter, err := e.Iterator(nil, nil)
	assert.NoError(t, err)
	assert.False(t, iter.Valid())
}
