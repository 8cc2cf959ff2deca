package utils

import "strings"

// TruncateForLog collapses runs of whitespace in s and shortens it to limit
// runes, appending an ellipsis when truncated. Free-text fields such as
// worker locations may contain line breaks that would split console logs.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
