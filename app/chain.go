package app

import (
	"reflect"

	anchortl "github.com/cqfd/anchor-tl"
)

// Decorators is an ordered stack of decorators waiting for the handler
// they wrap. The first decorator runs first.
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//   ).WithHandler(router)
type Decorators struct {
	stack []anchortl.Decorator
}

// ChainDecorators starts a stack. Nil decorators are ignored.
func ChainDecorators(ds ...anchortl.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a copy of the stack with ds appended below the existing
// decorators. Nil decorators are ignored.
func (d Decorators) Chain(ds ...anchortl.Decorator) Decorators {
	stack := append([]anchortl.Decorator(nil), d.stack...)
	for _, dec := range ds {
		if dec == nil {
			continue
		}
		if v := reflect.ValueOf(dec); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		stack = append(stack, dec)
	}
	return Decorators{stack: stack}
}

// WithHandler closes the stack over h.
func (d Decorators) WithHandler(h anchortl.Handler) anchortl.Handler {
	for i := len(d.stack) - 1; i >= 0; i-- {
		h = decorated{dec: d.stack[i], next: h}
	}
	return h
}

// decorated is a handler running dec around next.
type decorated struct {
	dec  anchortl.Decorator
	next anchortl.Handler
}

func (d decorated) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
