package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeLayout    = "15:04"
	minutesPerDay = 24 * 60
)

var (
	// ErrInvalidTime is returned when a time of day is not a valid HH:MM value.
	ErrInvalidTime = errors.New("reservation: time must be HH:MM between 00:00 and 23:59")
	// ErrEmptyInterval is returned when an interval does not end strictly after it starts.
	ErrEmptyInterval = errors.New("reservation: start must be before end")
)

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
type TimeOfDay int

// At returns the TimeOfDay for the given hour and minute.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses a zero-padded "HH:MM" value.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != len(timeLayout) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	t, err := time.Parse(timeLayout, trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return At(t.Hour(), t.Minute()), nil
}

// Valid reports whether t lies within 00:00–23:59.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// String formats t as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Interval is a half-open [Start, End) range of times on a single date.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewInterval validates that both bounds are valid times and that Start < End.
func NewInterval(start, end TimeOfDay) (Interval, error) {
	if !start.Valid() || !end.Valid() {
		return Interval{}, ErrInvalidTime
	}
	if start >= end {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrEmptyInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval parses the two "HH:MM" bounds of an interval.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Overlaps reports whether the two intervals share at least one minute.
// Intervals that only touch at an endpoint do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether other lies wholly inside i.
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// String formats the interval as "HH:MM-HH:MM".
func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}
