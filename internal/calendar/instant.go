package calendar

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// Display layouts for instants.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
	StdLayout      = "2006-01-02 15:04:05.000"
)

// ErrUnparsableInstant is returned when a string cannot be read as an instant.
var ErrUnparsableInstant = errors.New("unparsable instant")

// Layouts tried before falling back to cast's format list. cast does not
// accept minute precision without seconds, which is what users type most.
var localLayouts = []string{
	DateLayout,
	DateTimeLayout,
	"2006-01-02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

// Instant is an immutable point in time with millisecond resolution.
//
// The zero value represents "no instant" and reports IsZero. Instants keep the
// zone they were created in; nothing in this package converts between zones.
type Instant struct {
	t time.Time
}

// FromTime wraps t, dropping sub-millisecond precision and the monotonic
// clock reading.
func FromTime(t time.Time) Instant {
	if t.IsZero() {
		return Instant{}
	}
	return Instant{t: t.Truncate(time.Millisecond)}
}

// FromMillis returns the instant ms milliseconds after the Unix epoch, in the
// local zone.
func FromMillis(ms int64) Instant {
	return Instant{t: time.UnixMilli(ms)}
}

// Time unwraps the instant.
func (i Instant) Time() time.Time {
	return i.t
}

// EpochMillis returns milliseconds since the Unix epoch.
func (i Instant) EpochMillis() int64 {
	return i.t.UnixMilli()
}

// WithEpochMillis returns a copy set to ms, keeping the zone.
func (i Instant) WithEpochMillis(ms int64) Instant {
	return Instant{t: time.UnixMilli(ms).In(i.t.Location())}
}

// WithClock returns a copy on the same calendar date with the time of day set
// to hour:min:sec and the sub-second part zeroed.
func (i Instant) WithClock(hour, min, sec int) Instant {
	return i.withClockMillis(hour, min, sec, 0)
}

func (i Instant) withClockMillis(hour, min, sec, ms int) Instant {
	y, m, d := i.t.Date()
	return Instant{t: time.Date(y, m, d, hour, min, sec, ms*int(time.Millisecond), i.t.Location())}
}

func (i Instant) Hour() int { return i.t.Hour() }
func (i Instant) Minute() int { return i.t.Minute() }
func (i Instant) Second() int { return i.t.Second() }

// Weekday returns the day of the week, Sunday = 0.
func (i Instant) Weekday() time.Weekday {
	return i.t.Weekday()
}

// After reports whether i is strictly later than u.
func (i Instant) After(u Instant) bool {
	return i.t.After(u.t)
}

// Before reports whether i is strictly earlier than u.
func (i Instant) Before(u Instant) bool {
	return i.t.Before(u.t)
}

// Equal reports whether i and u denote the same instant, regardless of zone.
func (i Instant) Equal(u Instant) bool {
	return i.t.Equal(u.t)
}

// Compare returns -1, 0 or +1.
func (i Instant) Compare(u Instant) int {
	return i.t.Compare(u.t)
}

func (i Instant) IsZero() bool {
	return i.t.IsZero()
}

func (i Instant) Format(layout string) string {
	return i.t.Format(layout)
}

// FormatDate formats as 2006-01-02.
func (i Instant) FormatDate() string {
	return i.t.Format(DateLayout)
}

func (i Instant) String() string {
	if i.IsZero() {
		return "<none>"
	}
	return i.t.Format(StdLayout + " (MST)")
}

func (i Instant) GoString() string {
	return i.String()
}

// MarshalJSON encodes the instant as epoch milliseconds, or null when zero.
func (i Instant) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, i.EpochMillis(), 10), nil
}

// UnmarshalJSON accepts epoch milliseconds or any string ParseInstant reads.
func (i *Instant) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "" || s == "null" {
		*i = Instant{}
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*i = FromMillis(ms)
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnparsableInstant, s)
	}
	parsed, err := ParseInstant(unquoted)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Value implements driver.Valuer. Instants are stored as epoch milliseconds.
func (i Instant) Value() (driver.Value, error) {
	if i.IsZero() {
		return nil, nil
	}
	return i.EpochMillis(), nil
}

// Scan implements sql.Scanner.
func (i *Instant) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*i = Instant{}
	case int64:
		*i = FromMillis(v)
	case time.Time:
		*i = FromTime(v)
	case []byte:
		parsed, err := ParseInstant(string(v))
		if err != nil {
			return err
		}
		*i = parsed
	case string:
		parsed, err := ParseInstant(v)
		if err != nil {
			return err
		}
		*i = parsed
	default:
		return fmt.Errorf("cannot scan %v into Instant", reflect.TypeOf(value))
	}
	return nil
}

// ParseInstant reads s in the local zone. Accepted forms include
// 2006-01-02, 2006-01-02 15:04, 2006-01-02 15:04:05 and RFC 3339.
func ParseInstant(s string) (Instant, error) {
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return FromTime(t), nil
		}
	}
	t, err := cast.ToTimeInDefaultLocationE(s, time.Local)
	if err != nil || t.IsZero() {
		return Instant{}, fmt.Errorf("%w: %q", ErrUnparsableInstant, s)
	}
	return FromTime(t), nil
}
