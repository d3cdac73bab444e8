package orm

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
)

// Model is a value a ModelBucket can store. Validate runs before every
// write.
type Model interface {
	anchortl.Persistent
	Validate() error
}

// ModelBucket stores one model type under primary keys. Missing keys are
// reported as errors.ErrNotFound.
type ModelBucket interface {
	// One loads the model stored under key into dest.
	One(db anchortl.ReadOnlyKVStore, key []byte, dest Model) error
	// Has returns nil if key is present.
	Has(db anchortl.ReadOnlyKVStore, key []byte) error
	// Create writes m, failing with errors.ErrDuplicate if key is taken.
	Create(db anchortl.KVStore, key []byte, m Model) error
	// Put writes m, replacing any previous model.
	Put(db anchortl.KVStore, key []byte, m Model) error
	// Delete removes the model stored under key.
	Delete(db anchortl.KVStore, key []byte) error
	// Register serves the bucket content under a query path.
	Register(path string, r anchortl.QueryRouter)
}

func NewModelBucket(name string) ModelBucket {
	return modelBucket{Bucket: NewBucket(name)}
}

type modelBucket struct {
	Bucket
}

func (mb modelBucket) One(db anchortl.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := mb.Get(db, key)
	switch {
	case err != nil:
		return errors.Wrap(err, "load")
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return errors.Wrapf(dest.Unmarshal(raw), "unmarshal %T", dest)
}

func (mb modelBucket) Has(db anchortl.ReadOnlyKVStore, key []byte) error {
	ok, err := mb.Bucket.Has(db, key)
	switch {
	case err != nil:
		return errors.Wrap(err, "load")
	case !ok:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb modelBucket) Create(db anchortl.KVStore, key []byte, m Model) error {
	err := mb.Has(db, key)
	if err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "%s %X", mb.name, key)
	}
	if !errors.ErrNotFound.Is(err) {
		return err
	}
	return mb.Put(db, key, m)
}

func (mb modelBucket) Put(db anchortl.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %T", m)
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %T", m)
	}
	return errors.Wrap(mb.Set(db, key, raw), "store")
}

func (mb modelBucket) Delete(db anchortl.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return errors.Wrap(mb.Bucket.Delete(db, key), "delete")
}
