package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a string for locale-insensitive comparison:
// diacritics are stripped, letters lower-cased, whitespace runs collapsed to
// a single space, ends trimmed. Idempotent; "" stays "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// NFD splits base characters from combining marks so the marks can be
	// removed. The chain carries per-call state, so build it per call.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripper, s); err == nil {
		s = out
	}
	// Vietnamese đ/Đ is a standalone letter, not a base plus combining
	// mark, so NFD leaves it alone.
	s = strings.Map(func(r rune) rune {
		switch r {
		case 'đ':
			return 'd'
		case 'Đ':
			return 'D'
		}
		return r
	}, s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
