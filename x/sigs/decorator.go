/*
Package sigs verifies the ed25519 signatures of a transaction and keeps
one nonce per signer against replays. The Decorator exposes the verified
signers to the rest of the stack through Authenticate.
*/
package sigs

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
)

// verifyCost is the gas charged in CheckTx per verified signature.
const verifyCost = 500

// RegisterQuery serves the signer nonces under "/auth".
func RegisterQuery(qr anchortl.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator rejects signed transactions with an invalid or missing
// signature. Transactions that do not implement SignedTx pass through
// without signers.
type Decorator struct {
	optional bool
}

var _ anchortl.Decorator = Decorator{}

func NewDecorator() Decorator {
	return Decorator{}
}

// Optional returns a decorator accepting signed transactions with no
// signature at all.
func (d Decorator) Optional() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Checker) (*anchortl.CheckResult, error) {
	ctx, signers, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(signers) * verifyCost
	return res, nil
}

func (d Decorator) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Deliverer) (*anchortl.DeliverResult, error) {
	ctx, _, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// signers verifies tx and returns ctx carrying its signers, with their
// count.
func (d Decorator) signers(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (anchortl.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	conds, err := verifyTx(db, stx, anchortl.GetChainID(ctx))
	switch {
	case err != nil:
		return nil, 0, errors.Wrap(err, "verify signatures")
	case len(conds) == 0 && !d.optional:
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "no signature")
	}
	return withSigners(ctx, conds), len(conds), nil
}
