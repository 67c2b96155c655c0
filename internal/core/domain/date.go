package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for report dates.
// Every date exchanged with the provider and the store uses this layout.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form.
// It is deliberately a string type: dates cross the provider API, the CLI,
// the HTTP surface and SQL as strings, and a typed string avoids timezone
// drift that time.Time would introduce.
type Date string

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrInvalidInput, s)
	}
	return Date(s), nil
}

// DateOf converts a time.Time to a Date in the time's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return DateOf(d.Time().AddDate(0, 0, 1))
}

// Before reports whether d is earlier than other.
// Lexicographic comparison is correct for the fixed-width layout.
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return string(d) > string(other)
}

// String returns the wire form.
func (d Date) String() string {
	return string(d)
}

// DateRange expands an inclusive [from, to] window into individual days,
// oldest first. Returns an error if the window is inverted.
func DateRange(from, to Date) ([]Date, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: range start %s after end %s", ErrInvalidInput, from, to)
	}
	var days []Date
	for d := from; !d.After(to); d = d.Next() {
		days = append(days, d)
	}
	return days, nil
}
