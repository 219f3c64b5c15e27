// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup finds groups of duplicate songs. It compares titles and
// lyrics after normalization, either exactly or by edit-distance
// similarity, and assembles the results into a DuplicateReport.
//
// The package is pure: it reads the songs it is given, keeps all working
// state local to each call, and performs no I/O.
package dedup

import (
	"sort"

	"github.com/pdiddy/songdedup/internal/normalize"
	"github.com/pdiddy/songdedup/pkg/types"
)

// entry is a song that takes part in a check, with its normalized value.
type entry struct {
	index int
	value string
}

// prepare normalizes field for every song, dropping songs whose optional
// field is absent. Titles are always kept, even when empty.
func prepare(songs []types.Song, field types.Field) []entry {
	entries := make([]entry, 0, len(songs))
	for i, s := range songs {
		v := normalize.Text(field.Value(s))
		if v == "" && field.Optional() {
			continue
		}
		entries = append(entries, entry{index: i, value: v})
	}
	return entries
}

func newGroup(field types.Field, mode types.MatchMode) types.DuplicateGroup {
	return types.DuplicateGroup{Field: field, Mode: mode}
}

func addMember(g *types.DuplicateGroup, songs []types.Song, index int) {
	g.Songs = append(g.Songs, songs[index])
	g.Indices = append(g.Indices, index)
}

// sortGroups orders groups by the position of their first member.
func sortGroups(groups []types.DuplicateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Indices[0] < groups[j].Indices[0]
	})
}

// FindExact groups songs whose normalized field values are identical.
// Members keep input order. Songs without lyrics never match on lyrics.
func FindExact(songs []types.Song, field types.Field) []types.DuplicateGroup {
	firstSeen := make(map[string]int) // normalized value → index of first song
	groupOf := make(map[string]int)   // normalized value → index into groups
	groups := []types.DuplicateGroup{}

	for _, e := range prepare(songs, field) {
		first, seen := firstSeen[e.value]
		if !seen {
			firstSeen[e.value] = e.index
			continue
		}
		if gi, ok := groupOf[e.value]; ok {
			addMember(&groups[gi], songs, e.index)
			continue
		}
		g := newGroup(field, types.ModeExact)
		addMember(&g, songs, first)
		addMember(&g, songs, e.index)
		groupOf[e.value] = len(groups)
		groups = append(groups, g)
	}

	sortGroups(groups)
	return groups
}
