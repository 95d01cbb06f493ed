package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/stbl/stbl/internal/model1"
)

// ToAge converts time to human-readable duration
func ToAge(t time.Time) string {
	if t.IsZero() {
		return UnknownValue
	}
	return HumanDuration(time.Since(t))
}

// HumanDuration converts duration to human readable format (e.g., "5d", "3h", "2m")
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 365 {
		return fmt.Sprintf("%dy", days/365)
	}
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", seconds)
}

// Missing returns MissingValue if string is empty
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}

// NA returns NAValue if string is empty
func NA(s string) string {
	if s == "" {
		return NAValue
	}
	return s
}

// BoolToYesNo converts bool to Yes/No string
func BoolToYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FormatSize formats bytes to human readable format
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Truncate truncates a string to max runes
func Truncate(s string, max int) string {
	rr := []rune(s)
	if len(rr) <= max {
		return s
	}
	if max <= 3 {
		return string(rr[:max])
	}
	return string(rr[:max-3]) + "..."
}

// Squeeze collapses runs of an identical rune longer than size down to size.
// A size of 0 yields an empty string.
func Squeeze(s string, size int) string {
	if size <= 0 {
		return ""
	}

	var (
		b    strings.Builder
		prev rune
		run  int
	)
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run <= size {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// ParseTime reads a field value as a time. Strings are parsed as RFC 3339,
// numbers as unix milliseconds.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		if t == "" {
			return time.Time{}, false
		}
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case int64:
		return time.UnixMilli(t).UTC(), true
	case int:
		return time.UnixMilli(int64(t)).UTC(), true
	}

	return time.Time{}, false
}

// JoinStrings joins strings with separator, skipping empty ones
func JoinStrings(sep string, ss ...string) string {
	var parts []string
	for _, s := range ss {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// Cells renders a row into display strings in header order.
func Cells(h model1.Header, r model1.Row) []string {
	cc := make([]string, len(h))
	for i, c := range h {
		cc[i] = c.Display(r.Get(c.ID))
	}
	return cc
}
