package dates

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the wire format for date-only values (report ranges, DOB).
const ISODate = "2006-01-02"

// Display is the format the admin UI shows in date inputs (e.g. 05-Mar-2024).
const Display = "02-Jan-2006"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	ISODate,
	Display,
}

// Parse accepts the date shapes the upstream API and the UI exchange:
// RFC3339 timestamps, timestamps without zone, ISO dates and dd-Mon-yyyy.
// Values without a zone are read as UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseOptional returns nil for an empty string.
func ParseOptional(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
