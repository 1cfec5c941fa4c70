// Package sanitizer normalizes free-text form fields before validation.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading/trailing whitespace, collapses interior
// whitespace runs to a single space, and drops control characters.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		case unicode.IsControl(r):
			// drop
		default:
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}

// NormalizeTitle cleans a meeting title as entered in the booking modal.
func NormalizeTitle(title string) string {
	return TrimAndNormalize(title)
}

// NormalizeID cleans an opaque identifier field (room id, team id, record
// id) submitted by the gateway.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}
