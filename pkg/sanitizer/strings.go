package sanitizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Collapse trims s and folds internal whitespace runs into single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NFC rewrites s in Unicode normalization form C, so "é" typed as "e" plus
// a combining accent is stored and matched the same as the precomposed
// letter.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// ISBN strips separators commonly typed into ISBNs (hyphens and spaces)
// and upper-cases the ISBN-10 check character.
func ISBN(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '-' || unicode.IsSpace(r):
			continue
		case r == 'x':
			b.WriteRune('X')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
