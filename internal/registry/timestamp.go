package registry

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 layout written to storage.
const TimestampLayout = time.RFC3339Nano

// Layouts accepted when reading. The zone-less forms are what older data
// files contain; they are interpreted in local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders t for storage.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads a stored ISO-8601 timestamp, with or without zone offset.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}
