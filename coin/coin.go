/*
Package coin defines the fungible amount held by token accounts. A value is
kept as a whole part and a fractional part with nine decimal places.
*/
package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cqfd/anchor-tl/codec"
	"github.com/cqfd/anchor-tl/errors"
)

// IsCC reports whether s is a valid currency code, three or four upper
// case letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Range of the two parts of a coin.
const (
	MaxInt int64 = 999999999999999
	MinInt       = -MaxInt

	// FracUnit fractional units make one whole unit.
	FracUnit int64 = 1000000000
	MaxFrac        = FracUnit - 1
	MinFrac        = -MaxFrac
)

// Coin is an amount of one currency. In a normalized coin both parts have
// the same sign and the fractional part is below one unit.
type Coin struct {
	Ticker     string
	Whole      int64
	Fractional int64
}

func NewCoin(whole, fractional int64, ticker string) Coin {
	return Coin{Ticker: ticker, Whole: whole, Fractional: fractional}
}

func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// Add returns the sum of both coins. A zero coin without ticker is the
// neutral element, otherwise the tickers must match.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.IsZero():
		return o, nil
	case o.Ticker == "" && o.IsZero():
		return c, nil
	case c.Ticker != o.Ticker:
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "%s and %s", c.Ticker, o.Ticker)
	}
	sum := Coin{Ticker: c.Ticker, Whole: c.Whole + o.Whole, Fractional: c.Fractional + o.Fractional}
	return sum.normalize()
}

func (c Coin) Subtract(o Coin) (Coin, error) {
	return c.Add(o.Negative())
}

func (c Coin) Negative() Coin {
	return Coin{Ticker: c.Ticker, Whole: -c.Whole, Fractional: -c.Fractional}
}

// Compare orders two normalized coins by value, ignoring the ticker. It
// returns -1, 0 or 1.
func (c Coin) Compare(o Coin) int {
	if d := cmp(c.Whole, o.Whole); d != 0 {
		return d
	}
	return cmp(c.Fractional, o.Fractional)
}

func cmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (c Coin) Equals(o Coin) bool {
	return c == o
}

func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

func (c Coin) IsPositive() bool {
	return c.Compare(Coin{}) > 0
}

func (c Coin) IsNonNegative() bool {
	return c.Whole >= 0 && c.Fractional >= 0
}

// IsGTE is true if o has the same ticker and is not larger than c.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Compare(o) >= 0
}

func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Validate checks the ticker and the range and sign of both parts.
// Negative coins are valid.
func (c Coin) Validate() error {
	switch {
	case !IsCC(c.Ticker):
		return errors.Wrapf(errors.ErrCurrency, "ticker %q", c.Ticker)
	case c.Whole < MinInt || c.Whole > MaxInt:
		return errors.Wrap(errors.ErrOverflow, "whole")
	case c.Fractional < MinFrac || c.Fractional > MaxFrac:
		return errors.Wrap(errors.ErrOverflow, "fractional")
	case c.Whole > 0 && c.Fractional < 0, c.Whole < 0 && c.Fractional > 0:
		return errors.Wrap(errors.ErrState, "mismatched sign")
	}
	return nil
}

// normalize carries whole units out of the fractional part and aligns the
// signs of both parts.
func (c Coin) normalize() (Coin, error) {
	c.Whole, c.Fractional = c.Whole+c.Fractional/FracUnit, c.Fractional%FracUnit
	switch {
	case c.Whole > 0 && c.Fractional < 0:
		c.Whole, c.Fractional = c.Whole-1, c.Fractional+FracUnit
	case c.Whole < 0 && c.Fractional > 0:
		c.Whole, c.Fractional = c.Whole+1, c.Fractional-FracUnit
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%d whole units", c.Whole)
	}
	return c, nil
}

func (c *Coin) Marshal() ([]byte, error) {
	b := codec.NewBuffer()
	b.EncodeString(1, c.Ticker)
	b.EncodeInt(2, c.Whole)
	b.EncodeInt(3, c.Fractional)
	return b.Bytes(), b.Err()
}

func (c *Coin) Unmarshal(raw []byte) error {
	var res Coin
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			res.Ticker = r.String()
		case 2:
			res.Whole = r.Int()
		case 3:
			res.Fractional = r.Int()
		default:
			r.Skip()
		}
	}
	*c = res
	return r.Err()
}

// MarshalJSON writes the String form.
func (c Coin) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON reads the String form or an object with ticker, whole and
// fractional fields.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return c.Set(s)
	}
	// a named type without methods avoids recursion
	type plain struct {
		Ticker     string `json:"ticker"`
		Whole      int64  `json:"whole"`
		Fractional int64  `json:"fractional"`
	}
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = Coin(p)
	return nil
}

// String formats the coin as "<whole>[.<fraction>] <ticker>", for example
// "12.5 IOV" or "-0.001 ETH". ParseHumanFormat reads it back.
func (c Coin) String() string {
	if n, err := c.normalize(); err == nil {
		c = n
	}
	whole, frac := c.Whole, c.Fractional
	sign := ""
	if whole < 0 || frac < 0 {
		sign, whole, frac = "-", -whole, -frac
	}
	s := sign + strconv.FormatInt(whole, 10)
	if frac != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	}
	if c.Ticker != "" {
		s += " " + c.Ticker
	}
	return s
}

var humanFormat = regexp.MustCompile(`^(-?)\s*(\d+)(?:\.(\d{1,9}))?\s*([A-Z]{3,4})$`)

// ParseHumanFormat reads a coin written as "<whole>[.<fraction>] <ticker>"
// with up to nine decimal places.
func ParseHumanFormat(s string) (Coin, error) {
	m := humanFormat.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "coin %q", s)
	}
	whole, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "whole part: %s", err)
	}
	if whole > MaxInt {
		return Coin{}, errors.Wrap(errors.ErrOverflow, "whole")
	}
	var frac int64
	if digits := m[3]; digits != "" {
		// "5" means five tenths
		digits += strings.Repeat("0", 9-len(digits))
		if frac, err = strconv.ParseInt(digits, 10, 64); err != nil {
			return Coin{}, errors.Wrapf(errors.ErrInput, "fractional part: %s", err)
		}
	}
	c := Coin{Ticker: m[4], Whole: whole, Fractional: frac}
	if m[1] == "-" {
		c = c.Negative()
	}
	return c, nil
}

// Set parses s into c, making *Coin a flag.Value.
func (c *Coin) Set(s string) error {
	parsed, err := ParseHumanFormat(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
