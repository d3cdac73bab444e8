package timelock

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/x"
)

// escrowAuth authenticates the escrow condition and nothing else. It is
// created by Unlock once all release conditions are met.
type escrowAuth struct {
	cond anchortl.Condition
}

var _ x.Authenticator = escrowAuth{}

func (a escrowAuth) GetConditions(anchortl.Context) []anchortl.Condition {
	return []anchortl.Condition{a.cond}
}

func (a escrowAuth) HasAddress(_ anchortl.Context, addr anchortl.Address) bool {
	return a.cond.Address().Equals(addr)
}
