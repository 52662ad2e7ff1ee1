package util

import (
	"strconv"
	"time"
)

// DisplayLayout is the timestamp layout used in reports.
const DisplayLayout = "2006-01-02 15:04:05"

// FromMillis converts exchange epoch milliseconds to UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FormatMillis renders epoch milliseconds with DisplayLayout.
func FormatMillis(ms int64) string {
	return FromMillis(ms).Format(DisplayLayout)
}

// FormatOptionalMillis renders an optional timestamp, "n/a" when absent.
func FormatOptionalMillis(ms *int64) string {
	if ms == nil {
		return "n/a"
	}
	return FormatMillis(*ms)
}

// ParseMillis parses a decimal epoch-milliseconds string.
func ParseMillis(s string) (int64, bool) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return ms, true
}
