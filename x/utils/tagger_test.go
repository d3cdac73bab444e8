package utils

import (
	"context"
	"testing"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/store"
	"github.com/cqfd/anchor-tl/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestKeyTagger(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		err      error
		wantTags []common.KVPair
	}{
		"written key is tagged": {
			wantTags: []common.KVPair{{Key: []byte("0102"), Value: []byte("s")}},
		},
		"failure has no tags": {
			err: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := &weavetest.WriteHandler{Key: []byte{1, 2}, Value: []byte("x"), Err: tc.err}
			res, err := NewKeyTagger().Deliver(ctx, db, nil, h)
			if tc.err != nil {
				assert.True(t, errors.ErrState.Is(err))
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTags, res.Tags)
		})
	}
}

func TestKeyTaggerWithSavepoint(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	require.NoError(t, db.Set([]byte{0xAB}, []byte("old")))

	h := &weavetest.WriteHandler{Key: []byte{0xCD}, Value: []byte("new")}
	tagged := weavetest.Decorate(h, NewSavepoint().OnDeliver())
	del := &deleteHandler{key: []byte{0xAB}, next: tagged}

	res, err := NewKeyTagger().Deliver(ctx, db, nil, del)
	require.NoError(t, err)
	want := []common.KVPair{
		{Key: []byte("AB"), Value: []byte("d")},
		{Key: []byte("CD"), Value: []byte("s")},
	}
	assert.Equal(t, want, res.Tags)
}

func TestActionTagger(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "timelock/lock"}}

	res, err := NewActionTagger().Deliver(ctx, db, tx, &weavetest.Handler{})
	require.NoError(t, err)
	assert.Equal(t, common.KVPairs{{Key: []byte(ActionKey), Value: []byte("timelock/lock")}}, common.KVPairs(res.Tags))

	_, err = NewActionTagger().Deliver(ctx, db, tx, &weavetest.Handler{DeliverErr: errors.ErrNotFound})
	assert.True(t, errors.ErrNotFound.Is(err))
}

// deleteHandler removes a key before calling the next handler.
type deleteHandler struct {
	key  []byte
	next anchortl.Handler
}

func (h *deleteHandler) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.CheckResult, error) {
	if err := db.Delete(h.key); err != nil {
		return nil, err
	}
	return h.next.Check(ctx, db, tx)
}

func (h *deleteHandler) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.DeliverResult, error) {
	if err := db.Delete(h.key); err != nil {
		return nil, err
	}
	return h.next.Deliver(ctx, db, tx)
}
