package sigs

import (
	"context"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/x"
)

type ctxKey struct{}

// withSigners is unexported so only the Decorator can grant signers.
func withSigners(ctx anchortl.Context, signers []anchortl.Condition) anchortl.Context {
	return context.WithValue(ctx, ctxKey{}, signers)
}

// Authenticate reports the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx anchortl.Context) []anchortl.Condition {
	signers, _ := ctx.Value(ctxKey{}).([]anchortl.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx anchortl.Context, addr anchortl.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
