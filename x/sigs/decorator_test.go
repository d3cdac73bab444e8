package sigs

import (
	"context"
	"testing"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/crypto"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/store"
	"github.com/cqfd/anchor-tl/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	const chainID = "deco-chain"
	ctx := anchortl.WithChainID(context.Background(), chainID)
	db := store.MemStore()
	key := crypto.GenPrivKeyEd25519()
	signer := key.PublicKey().Condition()

	tx := newSignedTx("transfer")
	sig := func(nonce int64) []*StdSignature {
		s, err := SignTx(key, tx, chainID, nonce)
		require.NoError(t, err)
		return []*StdSignature{s}
	}
	h := &signerRecorder{}

	_, err := NewDecorator().Check(ctx, db, tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
	_, err = NewDecorator().Optional().Check(ctx, db, tx, h)
	require.NoError(t, err)
	assert.Empty(t, h.signers)

	tx.Signatures = sig(0)
	res, err := NewDecorator().Check(ctx, db, tx, h)
	require.NoError(t, err)
	assert.EqualValues(t, verifyCost, res.GasAllocated)
	assert.Equal(t, []anchortl.Condition{signer}, h.signers)

	_, err = NewDecorator().Deliver(ctx, db, tx, h)
	assert.True(t, ErrInvalidSequence.Is(err), "got %v", err)

	tx.Signatures = sig(1)
	_, err = NewDecorator().Deliver(ctx, db, tx, h)
	require.NoError(t, err)
	assert.Equal(t, []anchortl.Condition{signer}, h.signers)

	unsigned := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/plain"}}
	_, err = NewDecorator().Deliver(ctx, db, unsigned, h)
	require.NoError(t, err)
	assert.Empty(t, h.signers)
}

func TestAuthenticate(t *testing.T) {
	var a Authenticate
	ctx := context.Background()
	c := weavetest.NewCondition()

	assert.Nil(t, a.GetConditions(ctx))
	assert.False(t, a.HasAddress(ctx, c.Address()))

	ctx = withSigners(ctx, []anchortl.Condition{c})
	assert.True(t, a.HasAddress(ctx, c.Address()))
	assert.False(t, a.HasAddress(ctx, weavetest.NewCondition().Address()))
}

// signerRecorder keeps the signers of the last call.
type signerRecorder struct {
	signers []anchortl.Condition
}

func (h *signerRecorder) Check(ctx anchortl.Context, _ anchortl.KVStore, _ anchortl.Tx) (*anchortl.CheckResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &anchortl.CheckResult{}, nil
}

func (h *signerRecorder) Deliver(ctx anchortl.Context, _ anchortl.KVStore, _ anchortl.Tx) (*anchortl.DeliverResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &anchortl.DeliverResult{}, nil
}
