// Package dates converts between the textual calendar dates kept in storage and
// the time.Time values used everywhere else. Dates are timezone-naive: a stored
// "2024-03-09" always becomes midnight UTC of that day and back.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	StorageLayout  = "2006-01-02"
	LongLayout     = "January 2, 2006"
	clockLayout    = "15:04"
	clockLayoutSec = "15:04:05"
)

// ToStorageDate formats the calendar date of t as YYYY-MM-DD without any zone conversion.
func ToStorageDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// FromStorageDate parses a stored date. A nil or blank input means "no date" and
// yields nil without error.
func FromStorageDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(StorageLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("invalid storage date %q: %w", *s, err)
	}
	return &t, nil
}

// FormatLongDate renders the date for humans, e.g. "March 9, 2024".
func FormatLongDate(t time.Time) string {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(LongLayout)
}

// ParseClock normalizes a time of day to HH:MM. Seconds are accepted and dropped.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{clockLayout, clockLayoutSec} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(clockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", s)
}
