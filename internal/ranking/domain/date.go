package domain

import "time"

const (
	isoDateLayout = "2006-01-02"
	usDateLayout  = "1/2/2006"
)

// ParseDate normalizes a due-date value into a calendar date at UTC midnight.
// Accepted inputs are time.Time, *time.Time, ISO "YYYY-MM-DD" strings and
// US "MM/DD/YYYY" strings. Anything else reports false.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return dateOf(v), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return dateOf(*v), true
	case string:
		if t, err := time.Parse(isoDateLayout, v); err == nil {
			return t, true
		}
		if t, err := time.Parse(usDateLayout, v); err == nil {
			return t, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// dateOf drops the clock part of t, keeping the calendar date in t's own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// daysBetween returns the whole number of days from today to due.
func daysBetween(today, due time.Time) int {
	return int((dateOf(due).Unix() - dateOf(today).Unix()) / secondsPerDay)
}
