package codec

import (
	"testing"

	"github.com/cqfd/anchor-tl/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Ticker string
	Amount int64
}

func (m *inner) Marshal() ([]byte, error) {
	b := NewBuffer()
	b.EncodeString(1, m.Ticker)
	b.EncodeInt(2, m.Amount)
	return b.Bytes(), b.Err()
}

func (m *inner) Unmarshal(raw []byte) error {
	*m = inner{}
	r := NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.Ticker = r.String()
		case 2:
			m.Amount = r.Int()
		default:
			r.Skip()
		}
	}
	return r.Err()
}

type outer struct {
	ID    []byte
	Count uint64
	Ok    bool
	Coin  *inner
}

func (m *outer) Marshal() ([]byte, error) {
	b := NewBuffer()
	b.EncodeBytes(1, m.ID)
	b.EncodeUint(2, m.Count)
	b.EncodeBool(3, m.Ok)
	b.EncodeMessage(4, m.Coin)
	return b.Bytes(), b.Err()
}

func (m *outer) Unmarshal(raw []byte) error {
	*m = outer{}
	r := NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			m.ID = r.Bytes()
		case 2:
			m.Count = r.Uint()
		case 3:
			m.Ok = r.Bool()
		case 4:
			m.Coin = &inner{}
			r.Message(m.Coin)
		default:
			r.Skip()
		}
	}
	return r.Err()
}

func TestRoundTrip(t *testing.T) {
	cases := map[string]*outer{
		"empty":          {},
		"all set":        {ID: []byte("id"), Count: 300, Ok: true, Coin: &inner{Ticker: "IOV", Amount: 7}},
		"negative value": {Coin: &inner{Ticker: "X", Amount: -5}},
		"empty nested":   {Coin: &inner{}},
	}

	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := want.Marshal()
			require.NoError(t, err)
			var got outer
			require.NoError(t, got.Unmarshal(raw))
			assert.Equal(t, want, &got)
		})
	}
}

func TestZeroValuesAreOmitted(t *testing.T) {
	raw, err := (&outer{}).Marshal()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestKnownEncoding(t *testing.T) {
	// field 2, varint 300
	raw, err := (&outer{Count: 300}).Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0xac, 0x02}, raw)
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	b := NewBuffer()
	b.EncodeString(9, "future")
	b.EncodeUint(10, 42)
	b.EncodeUint(2, 5)
	require.NoError(t, b.Err())

	var got outer
	require.NoError(t, got.Unmarshal(b.Bytes()))
	assert.Equal(t, uint64(5), got.Count)
}

func TestMalformedInput(t *testing.T) {
	cases := map[string][]byte{
		"truncated varint":     {0x10, 0xac},
		"length too long":      {0x0a, 0x05, 'a'},
		"wrong wire type":      {0x12, 0x01, 'a'},
		"field number zero":    {0x00, 0x01},
		"unsupported wiretype": {0x0b},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var got outer
			err := got.Unmarshal(raw)
			if !errors.ErrInput.Is(err) {
				t.Fatalf("want input error, got %+v", err)
			}
		})
	}
}
