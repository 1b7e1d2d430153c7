package utils

import (
	"strings"
	"time"
)

// Accepted ISO-8601 instant layouts, tried in order. Fractional seconds are
// optional in all of them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
}

// ParseTimestamp parses an ISO-8601 instant. The offset may be written as
// Z, +hh:mm, +hhmm or +hh. The result is normalised to UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// FormatTimestamp renders an absolute instant, never a duration.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
