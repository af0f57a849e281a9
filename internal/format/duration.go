// Package format renders durations and identities for human-readable output.
package format

import (
	"fmt"
	"strings"
	"time"
)

// FormatExecutionDuration shows microseconds below a millisecond, milliseconds
// below a second, and the default representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis.
// Only the first line of s is kept.
func Truncate(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
