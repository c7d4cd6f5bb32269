package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day form used in queries and FormattedDate.
const DateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts YYYY-MM-DD, RFC3339 (with or without fraction) and
// YYYY-MM-DDTHH:MM[:SS]. Values without an offset are read as UTC.
// dateOnly reports whether s named a calendar day only.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeTime(t), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// NormalizeTime converts t to UTC at millisecond precision, the resolution
// every store keeps.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// EndOfDay returns the last millisecond of the UTC day containing t.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1).Add(-time.Millisecond)
}
