package models

import (
	"fmt"
	"time"
)

// DateKey identifies one calendar day inside the booking season,
// always in YYYY-MM-DD form.
type DateKey string

const dateKeyLayout = "2006-01-02"

func NewDateKey(year, month, day int) DateKey {
	return DateKey(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

// ParseDateKey validates the YYYY-MM-DD form. It does not check season
// membership; that is the classifier's job.
func ParseDateKey(raw string) (DateKey, error) {
	t, err := time.Parse(dateKeyLayout, raw)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD: %w", raw, err)
	}
	// Normalize, time.Parse accepts e.g. 2026-1-2 variants on some layouts.
	return DateKey(t.Format(dateKeyLayout)), nil
}

func (d DateKey) String() string { return string(d) }

// Parts returns year, month and day. Zeroes on a malformed key.
func (d DateKey) Parts() (year, month, day int) {
	t, err := time.Parse(dateKeyLayout, string(d))
	if err != nil {
		return 0, 0, 0
	}
	return t.Year(), int(t.Month()), t.Day()
}

func (d DateKey) Time() (time.Time, error) {
	return time.Parse(dateKeyLayout, string(d))
}

// Weekday returns the weekday of the date, Sunday on a malformed key.
func (d DateKey) Weekday() time.Weekday {
	t, err := time.Parse(dateKeyLayout, string(d))
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}
