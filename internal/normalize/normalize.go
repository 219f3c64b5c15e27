// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes song text before comparison so that
// casing, punctuation, and spacing differences never hide a duplicate.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text returns s composed to NFC, lower-cased, with every rune that is not
// a letter, digit, or whitespace removed, whitespace runs collapsed to one
// space, and leading/trailing whitespace trimmed. Whitespace-only input
// yields "".
func Text(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(norm.NFC.String(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// IsBlank reports whether s normalizes to the empty string.
func IsBlank(s string) bool {
	return Text(s) == ""
}
