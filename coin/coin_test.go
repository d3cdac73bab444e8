package coin

import (
	"encoding/json"
	"testing"

	"github.com/cqfd/anchor-tl/errors"
	"github.com/cqfd/anchor-tl/weavetest/assert"
)

func TestCompareCoin(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		wantRes int
	}{
		"a greater than b": {
			a:       NewCoin(20, 1234, "ABC"),
			b:       NewCoin(19, 999999999, "ABC"),
			wantRes: 1,
		},
		"a smaller than b": {
			a:       NewCoin(0, -2, "FOO"),
			b:       NewCoin(0, 1, "FOO"),
			wantRes: -1,
		},
		"both negative": {
			a:       NewCoin(-4, -2456, "BAR"),
			b:       NewCoin(-4, -4567, "BAR"),
			wantRes: 1,
		},
		"zero value coins": {
			a:       Coin{},
			b:       Coin{},
			wantRes: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantRes, tc.a.Compare(tc.b))
		})
	}
}

func TestAddCoin(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		want    Coin
		wantErr *errors.Error
	}{
		"simple add": {
			a:    NewCoin(100, 0, "IOV"),
			b:    NewCoin(20, 5, "IOV"),
			want: NewCoin(120, 5, "IOV"),
		},
		"fractional carry": {
			a:    NewCoin(1, 600000000, "IOV"),
			b:    NewCoin(0, 700000000, "IOV"),
			want: NewCoin(2, 300000000, "IOV"),
		},
		"subtract below zero": {
			a:    NewCoin(1, 0, "IOV"),
			b:    NewCoin(-1, -500000000, "IOV"),
			want: NewCoin(0, -500000000, "IOV"),
		},
		"sign mismatch is normalized": {
			a:    NewCoin(5, 0, "IOV"),
			b:    NewCoin(0, -1, "IOV"),
			want: NewCoin(4, 999999999, "IOV"),
		},
		"empty coin is neutral": {
			a:    Coin{},
			b:    NewCoin(3, 0, "IOV"),
			want: NewCoin(3, 0, "IOV"),
		},
		"different currency": {
			a:       NewCoin(1, 0, "IOV"),
			b:       NewCoin(1, 0, "ETH"),
			wantErr: errors.ErrCurrency,
		},
		"overflow": {
			a:       NewCoin(MaxInt, 0, "IOV"),
			b:       NewCoin(1, 0, "IOV"),
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestSubtractCoin(t *testing.T) {
	a := NewCoin(100, 0, "IOV")
	got, err := a.Subtract(NewCoin(100, 0, "IOV"))
	assert.Nil(t, err)
	if !got.IsZero() {
		t.Fatalf("want zero, got %s", got)
	}

	got, err = a.Subtract(NewCoin(0, 1, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, NewCoin(99, 999999999, "IOV"), got)
}

func TestCoinPredicates(t *testing.T) {
	cases := map[string]struct {
		c           Coin
		zero        bool
		positive    bool
		nonNegative bool
	}{
		"zero":     {c: NewCoin(0, 0, "IOV"), zero: true, nonNegative: true},
		"positive": {c: NewCoin(0, 1, "IOV"), positive: true, nonNegative: true},
		"negative": {c: NewCoin(0, -1, "IOV")},
		"whole":    {c: NewCoin(7, 0, "IOV"), positive: true, nonNegative: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.zero, tc.c.IsZero())
			assert.Equal(t, tc.positive, tc.c.IsPositive())
			assert.Equal(t, tc.nonNegative, tc.c.IsNonNegative())
		})
	}
}

func TestIsGTE(t *testing.T) {
	assert.Equal(t, true, NewCoin(5, 0, "IOV").IsGTE(NewCoin(5, 0, "IOV")))
	assert.Equal(t, true, NewCoin(5, 1, "IOV").IsGTE(NewCoin(5, 0, "IOV")))
	assert.Equal(t, false, NewCoin(4, 999, "IOV").IsGTE(NewCoin(5, 0, "IOV")))
	assert.Equal(t, false, NewCoin(50, 0, "ETH").IsGTE(NewCoin(5, 0, "IOV")))
}

func TestValidateCoin(t *testing.T) {
	cases := map[string]struct {
		c       Coin
		wantErr *errors.Error
	}{
		"valid":            {c: NewCoin(1, 5, "IOV")},
		"negative valid":   {c: NewCoin(-1, -5, "IOV")},
		"bad ticker":       {c: NewCoin(1, 0, "iov"), wantErr: errors.ErrCurrency},
		"missing ticker":   {c: NewCoin(1, 0, ""), wantErr: errors.ErrCurrency},
		"whole too big":    {c: NewCoin(MaxInt+1, 0, "IOV"), wantErr: errors.ErrOverflow},
		"fraction too big": {c: NewCoin(0, FracUnit, "IOV"), wantErr: errors.ErrOverflow},
		"mismatched sign":  {c: NewCoin(1, -1, "IOV"), wantErr: errors.ErrState},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.c.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		str     string
		wantErr *errors.Error
	}{
		"whole only":      {raw: "100 IOV", want: NewCoin(100, 0, "IOV"), str: "100 IOV"},
		"fractional":      {raw: "1.5 IOV", want: NewCoin(1, 500000000, "IOV"), str: "1.5 IOV"},
		"smallest unit":   {raw: "0.000000001 ETH", want: NewCoin(0, 1, "ETH"), str: "0.000000001 ETH"},
		"negative":        {raw: "-0.25 IOV", want: NewCoin(0, -250000000, "IOV"), str: "-0.25 IOV"},
		"no space":        {raw: "3IOV", want: NewCoin(3, 0, "IOV"), str: "3 IOV"},
		"lower ticker":    {raw: "3 iov", wantErr: errors.ErrInput},
		"too precise":     {raw: "1.0000000001 IOV", wantErr: errors.ErrInput},
		"missing amount":  {raw: "IOV", wantErr: errors.ErrInput},
		"whole too large": {raw: "1000000000000000 IOV", wantErr: errors.ErrOverflow},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.str, got.String())

			var c Coin
			assert.Nil(t, c.Set(tc.raw))
			assert.Equal(t, tc.want, c)
		})
	}
}

func TestCoinJSON(t *testing.T) {
	var c Coin
	assert.Nil(t, json.Unmarshal([]byte(`"12.5 IOV"`), &c))
	assert.Equal(t, NewCoin(12, 500000000, "IOV"), c)

	assert.Nil(t, json.Unmarshal([]byte(`{"ticker": "ETH", "whole": 3}`), &c))
	assert.Equal(t, NewCoin(3, 0, "ETH"), c)

	raw, err := json.Marshal(NewCoin(7, 0, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, `"7 IOV"`, string(raw))

	err = json.Unmarshal([]byte(`"seven IOV"`), &c)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestCoinBinary(t *testing.T) {
	c := NewCoin(-4, -12, "IOV")
	raw, err := c.Marshal()
	assert.Nil(t, err)

	var got Coin
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, c, got)
}
