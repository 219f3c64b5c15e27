// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for songdedup: the song
// records being deduplicated, the duplicate report the engine produces,
// and the configuration structs read by the CLI.
package types

import "sort"

// Song is one record in the collection being deduplicated. The engine
// only reads songs; it never modifies them.
type Song struct {
	// ID is a stable unique identifier (e.g. a slug).
	ID string `json:"id" yaml:"id"`

	// Title is the song title. An empty title is still a comparable value.
	Title string `json:"title" yaml:"title"`

	// Lyrics is the optional lyrics body. Empty means absent: the song is
	// excluded from lyrics checks.
	Lyrics string `json:"lyrics,omitempty" yaml:"lyrics,omitempty"`

	HasAudio bool `json:"has_audio" yaml:"has_audio"`
	HasImage bool `json:"has_image" yaml:"has_image"`

	// CreatedAt and UpdatedAt hold timestamps as supplied by the caller.
	// They are parsed only when ranking duplicates, and a value that does
	// not parse ranks as the epoch.
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// MediaScore weights attached media: audio counts 2, an image 1.
func (s Song) MediaScore() int {
	score := 0
	if s.HasAudio {
		score += 2
	}
	if s.HasImage {
		score++
	}
	return score
}

// MediaFlags renders attached media as "AI", "A-", "-I" or "--".
func (s Song) MediaFlags() string {
	b := []byte("--")
	if s.HasAudio {
		b[0] = 'A'
	}
	if s.HasImage {
		b[1] = 'I'
	}
	return string(b)
}

// RemovalSet is the set of song IDs chosen for deletion by one
// resolution run.
type RemovalSet map[string]struct{}

// NewRemovalSet returns an empty set.
func NewRemovalSet() RemovalSet {
	return make(RemovalSet)
}

// Add inserts ids into the set.
func (r RemovalSet) Add(ids ...string) {
	for _, id := range ids {
		r[id] = struct{}{}
	}
}

// Remove drops ids from the set.
func (r RemovalSet) Remove(ids ...string) {
	for _, id := range ids {
		delete(r, id)
	}
}

// Contains reports whether id is in the set.
func (r RemovalSet) Contains(id string) bool {
	_, ok := r[id]
	return ok
}

// Len returns the number of IDs in the set.
func (r RemovalSet) Len() int {
	return len(r)
}

// IDs returns the set members in ascending order.
func (r RemovalSet) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
