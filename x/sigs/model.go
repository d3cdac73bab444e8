package sigs

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/crypto"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/orm"
)

// BucketName is where we store the signer nonces
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce a javascript client can represent,
// Number.MAX_SAFE_INTEGER = 2^53 - 1.
const maxSequenceValue = (1 << 53) - 1

// UserData is the replay protection state of a single signer, stored under
// the signer address.
type UserData struct {
	Metadata *anchortl.Metadata
	Sequence int64
	Pubkey   *crypto.PublicKey
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	if err := u.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && u.Pubkey == nil {
		return errors.Wrap(ErrInvalidSequence, "needs pubkey")
	}
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeMessage(1, u.Metadata)
	b.EncodeInt(2, u.Sequence)
	b.EncodeMessage(3, u.Pubkey)
	return b.Bytes(), b.Err()
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			u.Metadata = &anchortl.Metadata{}
			r.Message(u.Metadata)
		case 2:
			u.Sequence = r.Int()
		case 3:
			u.Pubkey = &crypto.PublicKey{}
			r.Message(u.Pubkey)
		default:
			r.Skip()
		}
	}
	return r.Err()
}

// CheckAndIncrementSequence increments the sequence if it equals the
// expected value. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{ModelBucket: orm.NewModelBucket(BucketName)}
}

// GetOrCreate loads the signer state, or returns a fresh one starting at
// sequence zero if the signer was never seen.
func (b Bucket) GetOrCreate(db anchortl.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Metadata: anchortl.NewMetadata(), Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the user state under its public key address.
func (b Bucket) Save(db anchortl.KVStore, u *UserData) error {
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "missing pubkey")
	}
	return b.Put(db, u.Pubkey.Address(), u)
}

// NextNonce returns the numeric nonce the signer must use for its next
// transaction. Nonce counting starts with zero.
func NextNonce(db anchortl.ReadOnlyKVStore, signer anchortl.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
