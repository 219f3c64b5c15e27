// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/songdedup/pkg/types"
)

// section pairs a collection heading with its groups.
type section struct {
	heading string
	groups  []types.DuplicateGroup
}

func sections(r types.DuplicateReport) []section {
	return []section{
		{"Exact titles", r.ExactTitles},
		{"Similar titles", r.SimilarTitles},
		{"Exact lyrics", r.ExactLyrics},
		{"Similar lyrics", r.SimilarLyrics},
	}
}

// FormatTable writes the report as human-readable tables to w, one
// section per collection.
func FormatTable(r types.DuplicateReport, w io.Writer) {
	if r.Empty() {
		fmt.Fprintln(w, "No duplicates found.")
		return
	}

	total := 0
	for _, sec := range sections(r) {
		if len(sec.groups) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d groups)\n", sec.heading, len(sec.groups))
		fmt.Fprintf(w, "%-5s  %-24s  %-40s  %-5s  %s\n", "Group", "ID", "Title", "Media", "Created")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for gi, g := range sec.groups {
			for _, s := range g.Songs {
				fmt.Fprintf(w, "%-5d  %-24s  %-40s  %-5s  %s\n",
					gi+1, Truncate(s.ID, 24), Truncate(s.Title, 40), s.MediaFlags(), s.CreatedAt)
			}
		}
		fmt.Fprintln(w)
		total += len(sec.groups)
	}
	fmt.Fprintf(w, "%d duplicate groups\n", total)
}

// FormatJSON writes the report as indented JSON to w.
func FormatJSON(r types.DuplicateReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// FormatYAML writes the report as YAML to w.
func FormatYAML(r types.DuplicateReport, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
