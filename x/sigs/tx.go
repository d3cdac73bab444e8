package sigs

import (
	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/crypto"
	"github.com/cqfd/anchor-tl/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without its signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature together with the public key that produced
// it and the signer nonce it was created for.
type StdSignature struct {
	Sequence  int64
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeInt(1, s.Sequence)
	b.EncodeMessage(2, s.Pubkey)
	b.EncodeMessage(3, s.Signature)
	return b.Bytes(), b.Err()
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			s.Sequence = r.Int()
		case 2:
			s.Pubkey = &crypto.PublicKey{}
			r.Message(s.Pubkey)
		case 3:
			s.Signature = &crypto.Signature{}
			r.Message(s.Signature)
		default:
			r.Skip()
		}
	}
	return r.Err()
}
