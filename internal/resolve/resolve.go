// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve picks one song to keep from each duplicate group and
// collects the rest into a removal set.
//
// Members are ranked by attached media (audio 2, image 1, higher first),
// then by age (CreatedAt, else UpdatedAt, else the epoch; older first),
// then by title under locale-aware collation, and finally by ID. The last
// key makes the order total, so the keeper never depends on the order the
// group was given in.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdiddy/songdedup/pkg/types"
)

// DefaultLocale is used for title collation when none is configured.
const DefaultLocale = "en"

// ErrGroupTooSmall is returned for groups with fewer than two songs.
var ErrGroupTooSmall = errors.New("duplicate group needs at least two songs")

// Epoch ranks songs whose dates are missing or unparseable.
var Epoch = time.Unix(0, 0).UTC()

// dateLayouts are tried in order when parsing CreatedAt and UpdatedAt.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Selection is the outcome of ranking one group.
type Selection struct {
	Keeper    types.Song   `json:"keeper" yaml:"keeper"`
	Removable []types.Song `json:"removable" yaml:"removable"`
}

// RemovableIDs returns the IDs of the removable songs in rank order.
func (s Selection) RemovableIDs() []string {
	ids := make([]string, len(s.Removable))
	for i, song := range s.Removable {
		ids[i] = song.ID
	}
	return ids
}

// Selector ranks duplicate groups. A Selector holds a collator with
// internal buffers and must not be shared between goroutines; create one
// per resolution run.
type Selector struct {
	collator *collate.Collator
}

// NewSelector returns a Selector collating titles for locale, a BCP 47
// tag such as "en" or "de-CH". An empty locale means DefaultLocale.
func NewSelector(locale string) (*Selector, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: locale %q: %v", types.ErrInvalidConfiguration, locale, err)
	}
	return &Selector{collator: collate.New(tag)}, nil
}

// SelectKeepers ranks group with a DefaultLocale selector.
func SelectKeepers(group types.DuplicateGroup) (Selection, error) {
	s, err := NewSelector(DefaultLocale)
	if err != nil {
		return Selection{}, err
	}
	return s.SelectKeepers(group)
}

// SelectKeepers ranks the members of group and returns the top-ranked
// song as keeper, the rest as removable. The group is not modified.
func (s *Selector) SelectKeepers(group types.DuplicateGroup) (Selection, error) {
	if len(group.Songs) < 2 {
		return Selection{}, fmt.Errorf("%w (got %d)", ErrGroupTooSmall, len(group.Songs))
	}

	ranked := make([]types.Song, len(group.Songs))
	copy(ranked, group.Songs)
	s.Rank(ranked)

	return Selection{
		Keeper:    ranked[0],
		Removable: ranked[1:],
	}, nil
}

// Rank sorts songs in place, best candidate to keep first.
func (s *Selector) Rank(songs []types.Song) {
	dates := make(map[string]time.Time, len(songs))
	dateOf := func(song types.Song) time.Time {
		key := song.CreatedAt + "\x00" + song.UpdatedAt
		if t, ok := dates[key]; ok {
			return t
		}
		t := EffectiveDate(song)
		dates[key] = t
		return t
	}

	sort.SliceStable(songs, func(i, j int) bool {
		a, b := songs[i], songs[j]
		if ma, mb := a.MediaScore(), b.MediaScore(); ma != mb {
			return ma > mb
		}
		if da, db := dateOf(a), dateOf(b); !da.Equal(db) {
			return da.Before(db)
		}
		if c := s.collator.CompareString(a.Title, b.Title); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// EffectiveDate returns the time a song ranks by: CreatedAt when present,
// otherwise UpdatedAt, otherwise Epoch. A present value that does not
// parse also yields Epoch.
func EffectiveDate(song types.Song) time.Time {
	raw := strings.TrimSpace(song.CreatedAt)
	if raw == "" {
		raw = strings.TrimSpace(song.UpdatedAt)
	}
	if raw == "" {
		return Epoch
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return Epoch
}
