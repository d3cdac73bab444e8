package x

import (
	anchortl "github.com/cqfd/anchor-tl"
)

// Authenticator tells a handler which conditions signed the current
// transaction. Handlers receive one in their constructor and never look
// at signatures themselves.
type Authenticator interface {
	// GetConditions lists every condition met by the transaction.
	GetConditions(anchortl.Context) []anchortl.Condition
	// HasAddress reports whether a met condition has this address.
	HasAddress(anchortl.Context, anchortl.Address) bool
}

// ChainAuth merges several authenticators into one.
func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

// MultiAuth grants what any of its members grants.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

// GetConditions concatenates the conditions of all members in order.
// Duplicates are kept.
func (m MultiAuth) GetConditions(ctx anchortl.Context) []anchortl.Condition {
	var conds []anchortl.Condition
	for _, a := range m {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (m MultiAuth) HasAddress(ctx anchortl.Context, addr anchortl.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// Signers returns the addresses of all conditions auth grants.
func Signers(ctx anchortl.Context, auth Authenticator) []anchortl.Address {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	addrs := make([]anchortl.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}
