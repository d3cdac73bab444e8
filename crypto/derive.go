package crypto

import (
	"github.com/cqfd/anchor-tl/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DeriveKey returns the ed25519 key found under the SLIP-0010 path of the
// given master seed, for example "m/44'/234'/0'". An empty path uses the
// first 32 bytes of the seed directly.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if path == "" {
		if len(seed) < 32 {
			return nil, errors.Wrap(errors.ErrInput, "seed too short")
		}
		return PrivKeyEd25519FromSeed(seed[:32])
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key)
}
