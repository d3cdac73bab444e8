package orm

import (
	"bytes"
	"testing"

	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	accounts := NewBucket("accts")
	ids := accounts.Sequence("id")
	other := accounts.Sequence("other")

	n, err := ids.Current(db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	var last []byte
	for want := int64(1); want <= 300; want++ {
		n, raw, err := ids.Next(db)
		require.NoError(t, err)
		assert.Equal(t, want, n)
		assert.Equal(t, EncodeSequence(want), raw)
		if bytes.Compare(last, raw) >= 0 {
			t.Fatalf("%X does not sort after %X", raw, last)
		}
		last = raw
	}

	n, _, err = other.Next(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = ids.Current(db)
	require.NoError(t, err)
	assert.Equal(t, int64(300), n)

	// counters live outside of the bucket prefix
	models, err := accounts.Query(db, "prefix", nil)
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestDecodeSequence(t *testing.T) {
	cases := map[string]struct {
		raw  []byte
		want int64
		err  *errors.Error
	}{
		"missing":  {raw: nil},
		"encoded":  {raw: EncodeSequence(1234), want: 1234},
		"short":    {raw: []byte{1, 2, 3}, err: errors.ErrDatabase},
		"empty":    {raw: []byte{}, err: errors.ErrDatabase},
		"too long": {raw: make([]byte, 9), err: errors.ErrDatabase},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := DecodeSequence(tc.raw)
			assert.True(t, tc.err.Is(err), "got %v", err)
			assert.Equal(t, tc.want, got)
		})
	}
}
