package anchortl

import (
	"encoding/json"
	"math"
	"time"

	"github.com/cqfd/anchor-tl/errors"
)

// UnixTime is a point in time in whole seconds since the epoch. Block
// times and unlock times use it, sub second precision is dropped.
type UnixTime int64

// AsUnixTime truncates t to seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add works like time.Time.Add, dropping fractions of a second. It does
// not check for overflow, see AddSeconds.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AddSeconds returns t moved by secs, or ErrOverflow if the result does
// not fit in an int64.
func (t UnixTime) AddSeconds(secs int64) (UnixTime, error) {
	switch {
	case secs > 0 && int64(t) > math.MaxInt64-secs:
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", t, secs)
	case secs < 0 && int64(t) < math.MinInt64-secs:
		return 0, errors.Wrapf(errors.ErrOverflow, "%d - %d", t, -secs)
	}
	return t + UnixTime(secs), nil
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnmarshalJSON reads either a number of seconds or an RFC 3339 string,
// which is easier to write in a genesis file. Times before the epoch are
// rejected.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err != nil {
		var stamp time.Time
		if err := json.Unmarshal(raw, &stamp); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		secs = stamp.Unix()
	}
	if secs < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(secs)
	return nil
}
