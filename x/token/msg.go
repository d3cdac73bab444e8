package token

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/coin"
	"github.com/cqfd/anchor-tl/errors"
)

const (
	pathCreateAccountMsg = "token/create_account"
	pathTransferMsg      = "token/transfer"
	pathSetOwnerMsg      = "token/set_owner"

	maxMemoSize = 128
)

// CreateAccountMsg opens a new empty account.
type CreateAccountMsg struct {
	Metadata *anchortl.Metadata
	Owner    anchortl.Address
	Ticker   string
}

var _ anchortl.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

func (m *CreateAccountMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if !coin.IsCC(m.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.Ticker)
	}
	return nil
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeMessage(1, m.Metadata)
	b.EncodeBytes(2, m.Owner)
	b.EncodeString(3, m.Ticker)
	return b.Bytes(), b.Err()
}

func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	*m = CreateAccountMsg{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Metadata = &anchortl.Metadata{}
			r.Message(m.Metadata)
		case 2:
			m.Owner = r.Bytes()
		case 3:
			m.Ticker = r.String()
		default:
			r.Skip()
		}
	}
	return r.Err()
}

// TransferMsg moves tokens between two accounts.
type TransferMsg struct {
	Metadata    *anchortl.Metadata
	Source      anchortl.Address
	Destination anchortl.Address
	Amount      *coin.Coin
	Memo        string
}

var _ anchortl.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non positive amount")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo longer than %d", maxMemoSize)
	}
	return nil
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeMessage(1, m.Metadata)
	b.EncodeBytes(2, m.Source)
	b.EncodeBytes(3, m.Destination)
	b.EncodeMessage(4, m.Amount)
	b.EncodeString(5, m.Memo)
	return b.Bytes(), b.Err()
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	*m = TransferMsg{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Metadata = &anchortl.Metadata{}
			r.Message(m.Metadata)
		case 2:
			m.Source = r.Bytes()
		case 3:
			m.Destination = r.Bytes()
		case 4:
			m.Amount = &coin.Coin{}
			r.Message(m.Amount)
		case 5:
			m.Memo = r.String()
		default:
			r.Skip()
		}
	}
	return r.Err()
}

// SetOwnerMsg hands an account over to a new owner.
type SetOwnerMsg struct {
	Metadata *anchortl.Metadata
	Account  anchortl.Address
	NewOwner anchortl.Address
}

var _ anchortl.Msg = (*SetOwnerMsg)(nil)

func (SetOwnerMsg) Path() string {
	return pathSetOwnerMsg
}

func (m *SetOwnerMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if err := m.NewOwner.Validate(); err != nil {
		return errors.Wrap(err, "new owner")
	}
	return nil
}

func (m *SetOwnerMsg) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeMessage(1, m.Metadata)
	b.EncodeBytes(2, m.Account)
	b.EncodeBytes(3, m.NewOwner)
	return b.Bytes(), b.Err()
}

func (m *SetOwnerMsg) Unmarshal(raw []byte) error {
	*m = SetOwnerMsg{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Metadata = &anchortl.Metadata{}
			r.Message(m.Metadata)
		case 2:
			m.Account = r.Bytes()
		case 3:
			m.NewOwner = r.Bytes()
		default:
			r.Skip()
		}
	}
	return r.Err()
}
