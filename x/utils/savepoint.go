package utils

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache
// is written only if the call succeeds. A savepoint is inactive until
// OnCheck or OnDeliver selects the calls it covers.
type Savepoint struct {
	check, deliver bool
}

var _ anchortl.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Checker) (*anchortl.CheckResult, error) {
	cache := cacheOf(db, s.check)
	if cache == nil {
		return next.Check(ctx, db, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx anchortl.Context, db anchortl.KVStore, tx anchortl.Tx, next anchortl.Deliverer) (*anchortl.DeliverResult, error) {
	cache := cacheOf(db, s.deliver)
	if cache == nil {
		return next.Deliver(ctx, db, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

// cacheOf returns nil when the savepoint is off or db cannot be cached.
func cacheOf(db anchortl.KVStore, active bool) anchortl.KVCacheWrap {
	if !active {
		return nil
	}
	if c, ok := db.(anchortl.CacheableKVStore); ok {
		return c.CacheWrap()
	}
	return nil
}

// commit writes the cache after a successful call and drops it after a
// failed one, returning the call error.
func commit(cache anchortl.KVCacheWrap, callErr error) error {
	if callErr != nil {
		cache.Discard()
		return callErr
	}
	return errors.Wrap(cache.Write(), "savepoint")
}
