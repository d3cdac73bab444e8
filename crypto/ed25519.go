package crypto

import (
	"github.com/cqfd/anchor-tl/errors"
	"golang.org/x/crypto/ed25519"
)

var _ Signer = (*PrivateKey)(nil)

// GenPrivKeyEd25519 creates a key from crypto/rand. It panics if the
// system has no entropy to offer.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed expands a 32 byte seed into a key. The same seed
// always gives the same key.
func PrivKeyEd25519FromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed of %d bytes, want %d", len(seed), ed25519.SeedSize)
	}
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}, nil
}

func (k *PrivateKey) Sign(msg []byte) (*Signature, error) {
	if len(k.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "private key of %d bytes", len(k.Ed25519))
	}
	return &Signature{Ed25519: ed25519.Sign(k.Ed25519, msg)}, nil
}

func (k *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(k.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// Verify is false for a nil or malformed signature.
func (k *PublicKey) Verify(msg []byte, sig *Signature) bool {
	switch {
	case sig == nil,
		len(sig.Ed25519) != ed25519.SignatureSize,
		len(k.Ed25519) != ed25519.PublicKeySize:
		return false
	}
	return ed25519.Verify(k.Ed25519, msg, sig.Ed25519)
}
