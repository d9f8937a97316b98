package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date is not a valid YYYY-MM-DD calendar date.
var ErrInvalidDate = errors.New("reservation: date must be YYYY-MM-DD")

// ParseDate parses a calendar date and returns it at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	d, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return d, nil
}

// Today returns the calendar date of now, in now's own location, at midnight UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsPast reports whether date falls strictly before the calendar day of now.
func IsPast(date, now time.Time) bool {
	return date.Before(Today(now))
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
