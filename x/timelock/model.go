package timelock

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/orm"
)

const (
	// BucketName is where the timelocks are stored, each under its escrow
	// address.
	BucketName = "timelock"

	extensionName = "timelock"
)

// Timelock is the escrow record. It is created by Lock and deleted by
// Unlock and never modified in between.
type Timelock struct {
	Metadata *anchortl.Metadata
	// Account is the token account held in custody. Only this account is
	// drained on release.
	Account anchortl.Address
	// Receiver is the only party the tokens can be released to.
	Receiver anchortl.Address
	// ReceiverAccount is the token account credited on release.
	ReceiverAccount anchortl.Address
	// UnlockTime is the first block time at which the tokens can be
	// released.
	UnlockTime anchortl.UnixTime
	// Bump used together with the receiver to derive the escrow address.
	Bump uint8
}

var _ orm.Model = (*Timelock)(nil)

func (t *Timelock) Validate() error {
	if err := t.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := t.Account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if err := t.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if err := t.ReceiverAccount.Validate(); err != nil {
		return errors.Wrap(err, "receiver account")
	}
	if err := t.UnlockTime.Validate(); err != nil {
		return errors.Wrap(err, "unlock time")
	}
	return nil
}

func (t *Timelock) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeMessage(1, t.Metadata)
	b.EncodeBytes(2, t.Receiver)
	b.EncodeBytes(3, t.ReceiverAccount)
	b.EncodeInt(4, int64(t.UnlockTime))
	b.EncodeUint(5, uint64(t.Bump))
	b.EncodeBytes(6, t.Account)
	return b.Bytes(), b.Err()
}

func (t *Timelock) Unmarshal(raw []byte) error {
	*t = Timelock{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			t.Metadata = &anchortl.Metadata{}
			r.Message(t.Metadata)
		case 2:
			t.Receiver = r.Bytes()
		case 3:
			t.ReceiverAccount = r.Bytes()
		case 4:
			t.UnlockTime = anchortl.UnixTime(r.Int())
		case 5:
			bump := r.Uint()
			if bump > 255 {
				return errors.Wrapf(errors.ErrModel, "bump %d", bump)
			}
			t.Bump = uint8(bump)
		case 6:
			t.Account = r.Bytes()
		default:
			r.Skip()
		}
	}
	return r.Err()
}

// Condition returns the condition controlling the escrow of the given
// receiver. Only the bump returned by EscrowCondition is accepted by Lock.
func Condition(receiver anchortl.Address, bump uint8) (anchortl.Condition, error) {
	return anchortl.DeriveCondition(extensionName, [][]byte{receiver}, bump)
}

// EscrowCondition returns the escrow condition of the receiver together
// with its canonical bump.
func EscrowCondition(receiver anchortl.Address) (anchortl.Condition, uint8, error) {
	return anchortl.FindDerivedCondition(extensionName, [][]byte{receiver})
}

// NewBucket returns the bucket storing timelocks under their escrow
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// RegisterQuery will register this bucket as "/timelocks"
func RegisterQuery(qr anchortl.QueryRouter) {
	NewBucket().Register("timelocks", qr)
}
