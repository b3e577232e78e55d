// Package datefmt normalizes the date and time strings that travel between
// the spreadsheet endpoint, the AI extractor and the form.
//
// Spreadsheet-backed endpoints return date and time cells as full ISO-8601
// timestamps, while the form works in YYYY-MM-DD and HH:mm. Every function
// here is idempotent: an already-normalized value passes through unchanged.
package datefmt

import (
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// isoLayouts are tried in order when a time value contains a 'T'
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(:\d{2})?$`)

// FormatDate returns the YYYY-MM-DD part of an ISO timestamp
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "T"); i >= 0 {
		return s[:i]
	}
	return s
}

// FormatTimeIn normalizes a time value to HH:mm.
// ISO timestamps are converted into loc before formatting; clock values
// (H:mm, HH:mm, HH:mm:ss) are truncated to minutes with a zero-padded hour.
// Unrecognized values are returned as-is.
func FormatTimeIn(s string, loc *time.Location) string {
	if s == "" {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}

	if strings.Contains(s, "T") {
		for _, layout := range isoLayouts {
			t, err := time.ParseInLocation(layout, s, loc)
			if err == nil {
				return t.In(loc).Format(TimeLayout)
			}
		}
		return s
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		hour := m[1]
		if len(hour) == 1 {
			hour = "0" + hour
		}
		return hour + ":" + m[2]
	}

	return s
}

// CompactDate strips separators from a normalized date (2025-03-04 -> 20250304)
func CompactDate(s string) string {
	return strings.ReplaceAll(FormatDate(s), "-", "")
}

// CompactTime renders a normalized time as HHmmss (09:30 -> 093000).
// Returns an empty string when the time is unknown.
func CompactTime(s string, loc *time.Location) string {
	t := FormatTimeIn(s, loc)
	if t == "" {
		return ""
	}
	return strings.ReplaceAll(t, ":", "") + "00"
}
