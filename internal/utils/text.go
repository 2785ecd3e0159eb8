package utils

import "strings"

// SafeCell flattens a value for a single Markdown line or table cell:
// newlines become spaces and pipes become slashes.
func SafeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
