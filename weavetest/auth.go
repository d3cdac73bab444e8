package weavetest

import (
	"context"
	"fmt"

	anchortl "github.com/cqfd/anchor-tl"
)

// Auth is an x.Authenticator with a fixed set of signers. Signer and
// Signers are merged, either may be empty.
type Auth struct {
	Signer  anchortl.Condition
	Signers []anchortl.Condition
}

func (a *Auth) GetConditions(anchortl.Context) []anchortl.Condition {
	conds := append([]anchortl.Condition(nil), a.Signers...)
	if a.Signer != nil {
		conds = append(conds, a.Signer)
	}
	return conds
}

func (a *Auth) HasAddress(ctx anchortl.Context, addr anchortl.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator reading the signers from the context,
// where SetConditions stored them under Key.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx anchortl.Context, conds ...anchortl.Condition) anchortl.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx anchortl.Context) []anchortl.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []anchortl.Condition:
		return v
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx anchortl.Context, addr anchortl.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []anchortl.Condition, addr anchortl.Address) bool {
	for _, c := range conds {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
