package utils

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
)

// Recovery turns a panic further down the stack into an errors.ErrPanic
// result, so one bad transaction cannot halt the node.
type Recovery struct{}

var _ anchortl.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Checker) (_ *anchortl.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Deliverer) (_ *anchortl.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
