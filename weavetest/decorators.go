package weavetest

import anchortl "github.com/cqfd/anchor-tl"

// Decorator counts its calls and passes them on to the next handler,
// unless CheckErr or DeliverErr is set, which is then returned instead.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	calls counter
}

var _ anchortl.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Checker) (*anchortl.CheckResult, error) {
	d.calls.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Deliverer) (*anchortl.DeliverResult, error) {
	d.calls.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.calls.check }
func (d *Decorator) DeliverCallCount() int { return d.calls.deliver }
func (d *Decorator) CallCount() int        { return d.calls.total() }

// Decorate wraps h with d.
func Decorate(h anchortl.Handler, d anchortl.Decorator) anchortl.Handler {
	return decorated{h: h, d: d}
}

type decorated struct {
	h anchortl.Handler
	d anchortl.Decorator
}

func (x decorated) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.CheckResult, error) {
	return x.d.Check(ctx, db, tx, x.h)
}

func (x decorated) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx) (*anchortl.DeliverResult, error) {
	return x.d.Deliver(ctx, db, tx, x.h)
}

type counter struct {
	check, deliver int
}

func (c counter) total() int {
	return c.check + c.deliver
}
