// Package clock holds calendar-date helpers shared by the loan workflow.
//
// Dates in this service are civil dates: they are normalised to midnight UTC of
// the calendar day they fall on, so comparisons never depend on time of day or
// on the server's zone.
package clock

import "time"

// DateLayout is the wire and form format for calendar dates.
const DateLayout = "2006-01-02"

// Clock returns the current instant.
type Clock func() time.Time

// System is the wall clock.
func System() time.Time { return time.Now() }

// Date returns midnight UTC of the calendar day t falls on in its own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of c().
func (c Clock) Today() time.Time {
	if c == nil {
		return Date(System())
	}
	return Date(c())
}

// AddDays shifts a calendar date by n days.
func AddDays(date time.Time, n int) time.Time {
	return Date(date).AddDate(0, 0, n)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}

// Fixed returns a Clock pinned to t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
