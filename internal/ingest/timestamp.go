package ingest

import (
	"strings"
	"time"
)

// Fractional seconds are accepted after the seconds field by time.Parse
// even though the layouts do not spell them out.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02T15:04",
}

// ParseTimestamp parses an ISO-8601 date-time. A space may separate date and
// time, and a value without an offset is taken as UTC. The result is in UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > 10 && value[10] == ' ' {
		value = value[:10] + "T" + value[11:]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ValidationError{Field: "message.timestamp", Err: ErrInvalidTimestamp}
}
