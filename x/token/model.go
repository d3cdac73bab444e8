package token

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/coin"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/orm"
)

// BucketName is where the accounts are stored.
const BucketName = "tokacct"

// Account is a balance of a single currency controlled by its owner.
type Account struct {
	Metadata *anchortl.Metadata
	// Owner is the only address allowed to move the tokens or reassign the
	// ownership.
	Owner anchortl.Address
	Coin  *coin.Coin
}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account is well formed and holds a non negative
// balance.
func (a *Account) Validate() error {
	if err := a.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if a.Coin == nil {
		return errors.Wrap(errors.ErrEmpty, "coin")
	}
	if err := a.Coin.Validate(); err != nil {
		return errors.Wrap(err, "coin")
	}
	if !a.Coin.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

func (a *Account) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeMessage(1, a.Metadata)
	b.EncodeBytes(2, a.Owner)
	b.EncodeMessage(3, a.Coin)
	return b.Bytes(), b.Err()
}

func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			a.Metadata = &anchortl.Metadata{}
			r.Message(a.Metadata)
		case 2:
			a.Owner = r.Bytes()
		case 3:
			a.Coin = &coin.Coin{}
			r.Message(a.Coin)
		default:
			r.Skip()
		}
	}
	return r.Err()
}

// AccountCondition returns the condition an account address is derived
// from. Nobody can sign for it, so the address is only ever used as a
// storage key.
func AccountCondition(id []byte) anchortl.Condition {
	return anchortl.NewCondition("token", "account", id)
}

// NewBucket returns the bucket storing accounts under their address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// RegisterQuery will register this bucket as "/accounts"
func RegisterQuery(qr anchortl.QueryRouter) {
	NewBucket().Register("accounts", qr)
}
