package orm

import (
	"encoding/binary"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/errors"
)

// Sequence is a persistent counter starting at zero. Its values are
// encoded big endian, so they sort in the store the way they count.
type Sequence struct {
	key []byte
}

// Next advances the counter and returns the new value in both forms.
func (s Sequence) Next(db anchortl.KVStore) (int64, []byte, error) {
	n, err := s.Current(db)
	if err != nil {
		return 0, nil, err
	}
	n++
	raw := EncodeSequence(n)
	if err := db.Set(s.key, raw); err != nil {
		return 0, nil, errors.Wrap(err, "store sequence")
	}
	return n, raw, nil
}

// Current returns the last value handed out by Next, zero if none.
func (s Sequence) Current(db anchortl.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, errors.Wrap(err, "load sequence")
	}
	return DecodeSequence(raw)
}

// DecodeSequence reads a stored value. Nil decodes to zero.
func DecodeSequence(raw []byte) (int64, error) {
	switch len(raw) {
	case 0:
		if raw == nil {
			return 0, nil
		}
	case 8:
		return int64(binary.BigEndian.Uint64(raw)), nil
	}
	return 0, errors.Wrapf(errors.ErrDatabase, "sequence of %d bytes", len(raw))
}

func EncodeSequence(n int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(n))
	return raw
}
