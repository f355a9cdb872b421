package docchat

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeInput canonicalizes user input before retrieval and prompting:
// surrounding whitespace is trimmed and the text is NFKC-normalized so
// that full-width and compatibility variants match indexed content.
func NormalizeInput(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}
