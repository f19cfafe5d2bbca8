package utils

import (
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04"

var sizeUnits = []string{"b", "kb", "mb", "gb", "tb"}

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(byteCount int64) string {
	if byteCount <= 0 {
		return "0b"
	}
	value := float64(byteCount)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(sizeUnits)-1 {
		value /= 1024
		unitIndex++
	}
	switch {
	case unitIndex == 0:
		return fmt.Sprintf("%db", byteCount)
	case value < 10:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0") + sizeUnits[unitIndex]
	default:
		return fmt.Sprintf("%.0f%s", value, sizeUnits[unitIndex])
	}
}

// FormatTimestamp returns the provided time in the local time zone with minute precision.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return EmptyString
	}
	return value.In(time.Local).Format(timestampLayout)
}
