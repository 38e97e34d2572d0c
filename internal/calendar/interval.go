package calendar

import (
	"errors"
	"fmt"
)

// ErrInvertedInterval is returned when an interval begins after it ends.
var ErrInvertedInterval = errors.New("interval begins after it ends")

// Interval is a closed range of instants. Begin must not be after End;
// literals are not checked, NewInterval is.
type Interval struct {
	Begin Instant
	End   Instant
}

// NewInterval returns [begin, end] or ErrInvertedInterval.
func NewInterval(begin, end Instant) (Interval, error) {
	iv := Interval{Begin: begin, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// DayOf returns the whole calendar day containing date.
func DayOf(date Instant) Interval {
	return Interval{Begin: BeginOfDay(date), End: EndOfDay(date)}
}

// WeekOf returns Monday 00:00:00 through Sunday 23:59:59 around date.
func WeekOf(date Instant) Interval {
	return Interval{Begin: BeginOfWeek(date), End: EndOfWeek(date)}
}

func (iv Interval) Validate() error {
	if iv.Begin.After(iv.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvertedInterval, iv.Begin, iv.End)
	}
	return nil
}

// Overlaps reports whether iv and o share an instant.
func (iv Interval) Overlaps(o Interval) bool {
	return IntervalsOverlap(iv.Begin, iv.End, o.Begin, o.End)
}

// Contains reports whether at lies within iv, endpoints included.
func (iv Interval) Contains(at Instant) bool {
	return !at.Before(iv.Begin) && !at.After(iv.End)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s]", iv.Begin, iv.End)
}
