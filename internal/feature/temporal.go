package feature

import (
	"strings"
	"time"
)

// Clock holds calendar features extracted from an upload timestamp.
// Valid is false when the source value did not parse; consumers must then
// either drop the record (training) or zero-fill it (inference).
type Clock struct {
	Hour   int
	Minute int
	Second int
	Day    string // Monday..Sunday
	Valid  bool
}

// timeLayouts are tried in order when parsing raw timestamp strings.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04:05",
}

// ClockFrom extracts clock features from a parsed timestamp.
func ClockFrom(t time.Time) Clock {
	return Clock{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Day:    t.Weekday().String(),
		Valid:  true,
	}
}

// ParseClock parses a raw timestamp string and extracts clock features.
// Unparseable input yields the zero Clock with Valid=false instead of an error.
func ParseClock(s string) Clock {
	s = strings.TrimSpace(s)
	if s == "" {
		return Clock{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockFrom(t)
		}
	}
	return Clock{}
}

// ParseTimestamp parses a raw timestamp string with the same layouts as ParseClock.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
