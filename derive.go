package anchortl

import (
	"github.com/agl/ed25519/edwards25519"
	"github.com/cqfd/anchor-tl/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	// MaxSeeds is the maximum number of seeds a derived condition can be
	// computed from.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	derivedType   = "derived"
	derivedMarker = "DerivedCondition"
)

// derivationKey is the blake2b key separating derived digests from any other
// hash computed on this chain.
var derivationKey = []byte("anchor-tl/derived-condition/v1")

// DeriveCondition returns a condition owned by the extension ext and computed
// from the seeds and the bump. The digest is rejected when it is a valid
// ed25519 point, because such a condition could be authorized by whoever
// holds the corresponding private key.
func DeriveCondition(ext string, seeds [][]byte, bump uint8) (Condition, error) {
	if err := checkSeeds(seeds); err != nil {
		return nil, err
	}
	digest := derivedDigest(ext, seeds, bump)
	if IsOnCurve(digest) {
		return nil, errors.Wrapf(errors.ErrInput, "bump %d derives a valid public key", bump)
	}
	return NewCondition(ext, derivedType, digest[:]), nil
}

// FindDerivedCondition searches for the first bump, starting from 255 and
// going down, that produces a valid derived condition. The returned bump is
// the canonical one for the given seeds.
func FindDerivedCondition(ext string, seeds [][]byte) (Condition, uint8, error) {
	if err := checkSeeds(seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		digest := derivedDigest(ext, seeds, uint8(bump))
		if !IsOnCurve(digest) {
			return NewCondition(ext, derivedType, digest[:]), uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrState, "no viable bump")
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d too long: %d", i, len(s))
		}
	}
	return nil
}

func derivedDigest(ext string, seeds [][]byte, bump uint8) [32]byte {
	h, err := blake2b.New256(derivationKey)
	if err != nil {
		// Only possible with a key longer than 64 bytes.
		panic(err)
	}
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write([]byte(ext))
	h.Write([]byte(derivedMarker))

	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// IsOnCurve returns true if the given 32 bytes decode as a point of the
// ed25519 curve.
func IsOnCurve(b [32]byte) bool {
	var p edwards25519.ExtendedGroupElement
	return p.FromBytes(&b)
}
