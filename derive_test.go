package anchortl

import (
	"bytes"
	"testing"

	"github.com/cqfd/anchor-tl/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

func TestFindDerivedCondition(t *testing.T) {
	seeds := [][]byte{[]byte("receiver-address-0001")}

	cond, bump, err := FindDerivedCondition("timelock", seeds)
	require.NoError(t, err)
	require.NoError(t, cond.Validate())

	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "timelock", ext)
	assert.Equal(t, "derived", typ)
	assert.Len(t, data, 32)

	again, err := DeriveCondition("timelock", seeds, bump)
	require.NoError(t, err)
	assert.Equal(t, cond, again)

	// The canonical bump is the highest viable one.
	for b := 255; b > int(bump); b-- {
		_, err := DeriveCondition("timelock", seeds, uint8(b))
		if !errors.ErrInput.Is(err) {
			t.Fatalf("bump %d above the canonical %d must be rejected, got %v", b, bump, err)
		}
	}
}

func TestDeriveConditionIsDeterministicAndSeparated(t *testing.T) {
	a, abump, err := FindDerivedCondition("timelock", [][]byte{[]byte("alice")})
	require.NoError(t, err)
	a2, _, err := FindDerivedCondition("timelock", [][]byte{[]byte("alice")})
	require.NoError(t, err)
	assert.Equal(t, a, a2)

	b, _, err := FindDerivedCondition("timelock", [][]byte{[]byte("bob")})
	require.NoError(t, err)
	assert.False(t, a.Equals(b))
	assert.False(t, a.Address().Equals(b.Address()))

	other, _, err := FindDerivedCondition("escrow", [][]byte{[]byte("alice")})
	require.NoError(t, err)
	_, _, adata, _ := a.Parse()
	_, _, odata, _ := other.Parse()
	assert.False(t, bytes.Equal(adata, odata), "extension must be part of the digest")

	// Seeds are concatenated, the bump is appended.
	if abump > 0 {
		c, err := DeriveCondition("timelock", [][]byte{[]byte("alice")}, abump-1)
		if err == nil {
			assert.False(t, a.Equals(c))
		}
	}
}

func TestDeriveConditionRejectsCurvePoints(t *testing.T) {
	seeds := [][]byte{[]byte("some receiver")}
	var onCurve, offCurve int
	for b := 0; b < 256; b++ {
		digest := derivedDigest("timelock", seeds, uint8(b))
		_, err := DeriveCondition("timelock", seeds, uint8(b))
		if IsOnCurve(digest) {
			onCurve++
			if !errors.ErrInput.Is(err) {
				t.Fatalf("bump %d is on curve but accepted", b)
			}
		} else {
			offCurve++
			require.NoError(t, err)
		}
	}
	// Roughly half of all 32 byte strings are valid points.
	assert.True(t, onCurve > 0)
	assert.True(t, offCurve > 0)
}

func TestIsOnCurveAcceptsPublicKeys(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	var b [32]byte
	copy(b[:], pub)
	assert.True(t, IsOnCurve(b))
}

func TestDeriveConditionSeedLimits(t *testing.T) {
	cases := map[string]struct {
		seeds   [][]byte
		wantErr *errors.Error
	}{
		"no seeds": {
			seeds: nil,
		},
		"max seeds": {
			seeds: make([][]byte, MaxSeeds),
		},
		"too many seeds": {
			seeds:   make([][]byte, MaxSeeds+1),
			wantErr: errors.ErrInput,
		},
		"seed too long": {
			seeds:   [][]byte{make([]byte, MaxSeedLength+1)},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, _, err := FindDerivedCondition("timelock", tc.seeds)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
