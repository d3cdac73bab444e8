package weavetest

import (
	"testing"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/store"
	"github.com/cqfd/anchor-tl/weavetest/assert"
)

func TestHandler(t *testing.T) {
	h := Handler{
		CheckResult:   anchortl.CheckResult{Data: []byte("check"), GasAllocated: 5},
		DeliverResult: anchortl.DeliverResult{Data: []byte("deliver"), GasUsed: 7},
	}

	cres, err := h.Check(nil, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, &h.CheckResult, cres)
	dres, err := h.Deliver(nil, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, &h.DeliverResult, dres)

	h.CheckErr = errors.ErrUnauthorized
	h.DeliverErr = errors.ErrNotFound
	_, err = h.Check(nil, nil, nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = h.Deliver(nil, nil, nil)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Equal(t, 2, h.CheckCallCount())
	assert.Equal(t, 2, h.DeliverCallCount())
	assert.Equal(t, 4, h.CallCount())
}

func TestWriteHandler(t *testing.T) {
	cases := map[string]struct {
		err error
	}{
		"success":         {},
		"write then fail": {err: errors.ErrState},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := WriteHandler{Key: []byte("escrow"), Value: []byte("locked"), Err: tc.err}

			_, err := h.Deliver(nil, db, nil)
			if tc.err == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.err, err)
			}
			got, err := db.Get(h.Key)
			assert.Nil(t, err)
			assert.Equal(t, h.Value, got)
		})
	}
}
