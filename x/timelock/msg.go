package timelock

import (
	"math"

	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/errors"
)

const (
	pathLockMsg   = "timelock/lock"
	pathUnlockMsg = "timelock/unlock"
)

// LockMsg puts the tokens of an account in escrow for the receiver. The
// initializer must own the account and sign the transaction.
type LockMsg struct {
	Metadata        *anchortl.Metadata
	Initializer     anchortl.Address
	Account         anchortl.Address
	Receiver        anchortl.Address
	ReceiverAccount anchortl.Address
	// Bump must be the canonical bump of the receiver escrow condition.
	Bump uint32
	// Duration in seconds after which the tokens can be released.
	Duration int64
}

var _ anchortl.Msg = (*LockMsg)(nil)

func (LockMsg) Path() string {
	return pathLockMsg
}

func (m *LockMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := m.Account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if err := m.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if err := m.ReceiverAccount.Validate(); err != nil {
		return errors.Wrap(err, "receiver account")
	}
	if m.Account.Equals(m.ReceiverAccount) {
		return errors.Wrap(errors.ErrInput, "account cannot be released to itself")
	}
	if m.Bump > 255 {
		return errors.Wrapf(errors.ErrInput, "bump %d", m.Bump)
	}
	if m.Duration < 0 {
		return errors.Wrap(errors.ErrInput, "negative duration")
	}
	return nil
}

func (m *LockMsg) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeMessage(1, m.Metadata)
	b.EncodeBytes(2, m.Initializer)
	b.EncodeBytes(3, m.Account)
	b.EncodeBytes(4, m.Receiver)
	b.EncodeBytes(5, m.ReceiverAccount)
	b.EncodeUint(6, uint64(m.Bump))
	b.EncodeInt(7, m.Duration)
	return b.Bytes(), b.Err()
}

func (m *LockMsg) Unmarshal(raw []byte) error {
	*m = LockMsg{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Metadata = &anchortl.Metadata{}
			r.Message(m.Metadata)
		case 2:
			m.Initializer = r.Bytes()
		case 3:
			m.Account = r.Bytes()
		case 4:
			m.Receiver = r.Bytes()
		case 5:
			m.ReceiverAccount = r.Bytes()
		case 6:
			bump := r.Uint()
			if bump > math.MaxUint32 {
				return errors.Wrapf(errors.ErrInput, "bump %d", bump)
			}
			m.Bump = uint32(bump)
		case 7:
			m.Duration = r.Int()
		default:
			r.Skip()
		}
	}
	return r.Err()
}

// UnlockMsg releases the escrow. Anybody can submit it, the receiver and
// receiver account must match the ones the escrow was created with.
type UnlockMsg struct {
	Metadata *anchortl.Metadata
	// Escrow is the address the timelock is stored under.
	Escrow anchortl.Address
	// Account is the token account held in custody. It must be the
	// account recorded by the timelock.
	Account         anchortl.Address
	Receiver        anchortl.Address
	ReceiverAccount anchortl.Address
}

var _ anchortl.Msg = (*UnlockMsg)(nil)

func (UnlockMsg) Path() string {
	return pathUnlockMsg
}

func (m *UnlockMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if err := m.Receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if err := m.ReceiverAccount.Validate(); err != nil {
		return errors.Wrap(err, "receiver account")
	}
	return nil
}

func (m *UnlockMsg) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeMessage(1, m.Metadata)
	b.EncodeBytes(2, m.Escrow)
	b.EncodeBytes(3, m.Account)
	b.EncodeBytes(4, m.Receiver)
	b.EncodeBytes(5, m.ReceiverAccount)
	return b.Bytes(), b.Err()
}

func (m *UnlockMsg) Unmarshal(raw []byte) error {
	*m = UnlockMsg{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Metadata = &anchortl.Metadata{}
			r.Message(m.Metadata)
		case 2:
			m.Escrow = r.Bytes()
		case 3:
			m.Account = r.Bytes()
		case 4:
			m.Receiver = r.Bytes()
		case 5:
			m.ReceiverAccount = r.Bytes()
		default:
			r.Skip()
		}
	}
	return r.Err()
}
