package app

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/x/sigs"
	"github.com/cqfd/anchor-tl/x/timelock"
	"github.com/cqfd/anchor-tl/x/token"
)

// Field numbers of the transaction envelope. Exactly one message field may
// be present.
const (
	fieldSignatures = 1

	fieldCreateAccountMsg = 20
	fieldTransferMsg      = 21
	fieldSetOwnerMsg      = 22
	fieldLockMsg          = 30
	fieldUnlockMsg        = 31
)

// Tx carries a single message together with the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        anchortl.Msg
}

// make sure tx fulfills all interfaces
var _ anchortl.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (anchortl.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (anchortl.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	return tx.Msg, nil
}

// GetSignatures implements sigs.SignedTx.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are never part of the
// signed content.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func msgField(msg anchortl.Msg) (int, error) {
	switch msg.(type) {
	case *token.CreateAccountMsg:
		return fieldCreateAccountMsg, nil
	case *token.TransferMsg:
		return fieldTransferMsg, nil
	case *token.SetOwnerMsg:
		return fieldSetOwnerMsg, nil
	case *timelock.LockMsg:
		return fieldLockMsg, nil
	case *timelock.UnlockMsg:
		return fieldUnlockMsg, nil
	}
	return 0, errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
}

func (tx *Tx) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	for _, sig := range tx.Signatures {
		b.EncodeMessage(fieldSignatures, sig)
	}
	if tx.Msg != nil {
		field, err := msgField(tx.Msg)
		if err != nil {
			return nil, err
		}
		b.EncodeMessage(field, tx.Msg)
	}
	return b.Bytes(), b.Err()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	r := codec.NewReader(raw)
	for r.Next() {
		var msg anchortl.Msg
		switch r.Field() {
		case fieldSignatures:
			sig := &sigs.StdSignature{}
			r.Message(sig)
			tx.Signatures = append(tx.Signatures, sig)
			continue
		case fieldCreateAccountMsg:
			msg = &token.CreateAccountMsg{}
		case fieldTransferMsg:
			msg = &token.TransferMsg{}
		case fieldSetOwnerMsg:
			msg = &token.SetOwnerMsg{}
		case fieldLockMsg:
			msg = &timelock.LockMsg{}
		case fieldUnlockMsg:
			msg = &timelock.UnlockMsg{}
		default:
			r.Skip()
			continue
		}
		if tx.Msg != nil {
			return errors.Wrap(errors.ErrMsg, "more than one message")
		}
		r.Message(msg)
		tx.Msg = msg
	}
	return r.Err()
}
