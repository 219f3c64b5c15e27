// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity scores how alike two strings are.
//
// Ratio is the edit-distance similarity used by the duplicate checks:
//
//	(maxLen - levenshtein(a, b)) / maxLen
//
// with lengths counted in runes. A single call costs O(len(a)·len(b));
// clustering n songs makes O(n²) calls, so a full scan is quadratic in
// the number of songs times quadratic in their text length.
package similarity

import (
	"fmt"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/pdiddy/songdedup/internal/normalize"
)

// Algorithm names a similarity measure.
type Algorithm string

const (
	Levenshtein Algorithm = "levenshtein"
	JaroWinkler Algorithm = "jaro-winkler"
)

// Distance returns the Levenshtein distance between a and b over runes,
// with unit cost for insertions, deletions, and substitutions.
func Distance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// Ratio returns the edit-distance similarity of a and b in [0,1], where 1
// means identical. Two empty strings are identical. Ratio does not
// normalize its inputs.
func Ratio(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-Distance(a, b)) / float64(maxLen)
}

// Score compares a and b with the named algorithm. Inputs are used as
// given.
func Score(a, b string, algo Algorithm) (float64, error) {
	switch algo {
	case Levenshtein, "":
		return Ratio(a, b), nil
	case JaroWinkler:
		if a == "" && b == "" {
			return 1.0, nil
		}
		return float64(edlib.JaroWinklerSimilarity(a, b)), nil
	default:
		return 0, fmt.Errorf("unknown similarity algorithm %q", algo)
	}
}

// Compare normalizes a and b and scores them with algo. It backs the
// "% similar" display for two arbitrary songs.
func Compare(a, b string, algo Algorithm) (float64, error) {
	return Score(normalize.Text(a), normalize.Text(b), algo)
}
