/*
Package crypto provides the ed25519 keys used to sign transactions. Public
keys are turned into conditions of the "sigs" extension so that a valid
signature grants the permission of the matching address.
*/
package crypto

import (
	anchortl "github.com/cqfd/anchor-tl"
	"github.com/cqfd/anchor-tl/codec"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey holds the raw ed25519 public key bytes.
type PublicKey struct {
	Ed25519 []byte
}

// Marshal implements anchortl.Persistent.
func (p *PublicKey) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeBytes(1, p.Ed25519)
	return b.Bytes(), b.Err()
}

// Unmarshal implements anchortl.Persistent.
func (p *PublicKey) Unmarshal(raw []byte) error {
	*p = PublicKey{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			p.Ed25519 = r.Bytes()
		default:
			r.Skip()
		}
	}
	return r.Err()
}

// Condition encodes the public key into a permission.
func (p *PublicKey) Condition() anchortl.Condition {
	return anchortl.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address controlled by this key.
func (p *PublicKey) Address() anchortl.Address {
	return p.Condition().Address()
}

// PrivateKey holds the raw ed25519 private key bytes (seed and public part).
type PrivateKey struct {
	Ed25519 []byte
}

// Marshal implements anchortl.Persistent.
func (p *PrivateKey) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeBytes(1, p.Ed25519)
	return b.Bytes(), b.Err()
}

// Unmarshal implements anchortl.Persistent.
func (p *PrivateKey) Unmarshal(raw []byte) error {
	*p = PrivateKey{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			p.Ed25519 = r.Bytes()
		default:
			r.Skip()
		}
	}
	return r.Err()
}

// Signature holds a raw ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

// Marshal implements anchortl.Persistent.
func (s *Signature) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeBytes(1, s.Ed25519)
	return b.Bytes(), b.Err()
}

// Unmarshal implements anchortl.Persistent.
func (s *Signature) Unmarshal(raw []byte) error {
	*s = Signature{}
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			s.Ed25519 = r.Bytes()
		default:
			r.Skip()
		}
	}
	return r.Err()
}
