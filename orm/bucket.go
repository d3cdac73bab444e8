/*
Package orm splits the store into buckets. A bucket owns every key that
starts with its name and a colon, holds a single model type under
primary keys and can be exposed to ABCI queries.
*/
package orm

import (
	"fmt"
	"regexp"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
)

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket reads and writes raw values below its prefix. ModelBucket adds
// typing on top of it.
type Bucket struct {
	name   string
	prefix []byte
}

var _ anchortl.QueryHandler = Bucket{}

// NewBucket panics unless name is 3 to 10 lower case letters or
// underscores.
func NewBucket(name string) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{name: name, prefix: []byte(name + ":")}
}

// Register serves the bucket under "/"+path, or "/"+name if path is
// empty.
func (b Bucket) Register(path string, r anchortl.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
}

// Query looks up one key, or every key with the given prefix, inside the
// bucket. Keys in the result carry the bucket prefix.
func (b Bucket) Query(db anchortl.ReadOnlyKVStore, mod string, data []byte) ([]anchortl.Model, error) {
	return query(db, mod, b.DBKey(data))
}

// DBKey prefixes key with the bucket name. The result never shares memory
// with key.
func (b Bucket) DBKey(key []byte) []byte {
	k := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(k, b.prefix...), key...)
}

func (b Bucket) Get(db anchortl.ReadOnlyKVStore, key []byte) ([]byte, error) {
	return db.Get(b.DBKey(key))
}

func (b Bucket) Has(db anchortl.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

func (b Bucket) Set(db anchortl.KVStore, key, value []byte) error {
	return db.Set(b.DBKey(key), value)
}

func (b Bucket) Delete(db anchortl.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Sequence returns the counter called name that belongs to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return Sequence{key: []byte("_s." + b.name + ":" + name)}
}

// query runs a key or prefix lookup for key on db.
func query(db anchortl.ReadOnlyKVStore, mod string, key []byte) ([]anchortl.Model, error) {
	switch mod {
	case anchortl.KeyQueryMod:
		value, err := db.Get(key)
		if err != nil || value == nil {
			return nil, err
		}
		return []anchortl.Model{anchortl.Pair(key, value)}, nil
	case anchortl.PrefixQueryMod:
		it, err := db.Iterator(prefixRange(key))
		if err != nil {
			return nil, err
		}
		return ConsumeIterator(it)
	}
	return nil, errors.Wrapf(errors.ErrInput, "query mod %q", mod)
}
