// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/songdedup/pkg/types"
)

func group(songs ...types.Song) types.DuplicateGroup {
	g := types.DuplicateGroup{Field: types.FieldTitle, Mode: types.ModeSimilar, Songs: songs}
	for i := range songs {
		g.Indices = append(g.Indices, i)
	}
	return g
}

func newSelector(t *testing.T) *Selector {
	t.Helper()
	s, err := NewSelector("")
	require.NoError(t, err)
	return s
}

func TestSelectKeepersMediaBeatsAge(t *testing.T) {
	g := group(
		types.Song{ID: "new", Title: "Song", HasAudio: true, HasImage: true, CreatedAt: "2024-06-01"},
		types.Song{ID: "bare", Title: "Song", CreatedAt: "2023-01-01"},
		types.Song{ID: "old", Title: "Song", HasAudio: true, HasImage: true, CreatedAt: "2024-01-01"},
	)

	sel, err := SelectKeepers(g)
	require.NoError(t, err)
	assert.Equal(t, "old", sel.Keeper.ID)
	assert.Equal(t, []string{"new", "bare"}, sel.RemovableIDs())
}

func TestSelectKeepersRanking(t *testing.T) {
	tests := []struct {
		name   string
		songs  []types.Song
		keeper string
	}{
		{
			name: "audio outranks image",
			songs: []types.Song{
				{ID: "img", Title: "A", HasImage: true},
				{ID: "audio", Title: "A", HasAudio: true},
			},
			keeper: "audio",
		},
		{
			name: "oldest wins on equal media",
			songs: []types.Song{
				{ID: "b", Title: "A", CreatedAt: "2022-03-01T10:00:00Z"},
				{ID: "a", Title: "A", CreatedAt: "2021-03-01T10:00:00Z"},
			},
			keeper: "a",
		},
		{
			name: "updated at stands in for created at",
			songs: []types.Song{
				{ID: "created", Title: "A", CreatedAt: "2022-01-01"},
				{ID: "updated", Title: "A", UpdatedAt: "2021-01-01"},
			},
			keeper: "updated",
		},
		{
			name: "missing dates rank as epoch",
			songs: []types.Song{
				{ID: "dated", Title: "A", CreatedAt: "1999-01-01"},
				{ID: "undated", Title: "A"},
			},
			keeper: "undated",
		},
		{
			name: "malformed date ranks as epoch",
			songs: []types.Song{
				{ID: "dated", Title: "A", CreatedAt: "1999-01-01"},
				{ID: "garbage", Title: "A", CreatedAt: "last tuesday", UpdatedAt: "1990-01-01"},
			},
			keeper: "garbage",
		},
		{
			name: "title breaks date ties",
			songs: []types.Song{
				{ID: "1", Title: "beta", CreatedAt: "2020-01-01"},
				{ID: "2", Title: "Alpha", CreatedAt: "2020-01-01"},
			},
			keeper: "2",
		},
		{
			name: "collation places accented letters with their base",
			songs: []types.Song{
				{ID: "z", Title: "Zion"},
				{ID: "e", Title: "Élan"},
			},
			keeper: "e",
		},
		{
			name: "id breaks full ties",
			songs: []types.Song{
				{ID: "song-b", Title: "Same"},
				{ID: "song-a", Title: "Same"},
			},
			keeper: "song-a",
		},
	}
	s := newSelector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := s.SelectKeepers(group(tt.songs...))
			require.NoError(t, err)
			assert.Equal(t, tt.keeper, sel.Keeper.ID)
			assert.Len(t, sel.Removable, len(tt.songs)-1)
		})
	}
}

func TestSelectKeepersIgnoresInputOrder(t *testing.T) {
	songs := []types.Song{
		{ID: "a", Title: "Holy", HasImage: true, CreatedAt: "2023-05-01"},
		{ID: "b", Title: "holy", HasImage: true, CreatedAt: "2023-05-01"},
		{ID: "c", Title: "Holy", HasImage: true, CreatedAt: "2023-05-01"},
		{ID: "d", Title: "Holy!", HasImage: true},
		{ID: "e", Title: "Holy", HasImage: true, UpdatedAt: "not a date"},
		{ID: "f", Title: "Holy", CreatedAt: "2001-01-01"},
	}
	s := newSelector(t)
	want, err := s.SelectKeepers(group(songs...))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		shuffled := append([]types.Song(nil), songs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := s.SelectKeepers(group(shuffled...))
		require.NoError(t, err)
		assert.Equal(t, want.Keeper.ID, got.Keeper.ID)
		assert.Equal(t, want.RemovableIDs(), got.RemovableIDs())
	}
}

func TestSelectKeepersDoesNotReorderGroup(t *testing.T) {
	g := group(types.Song{ID: "b", Title: "B"}, types.Song{ID: "a", Title: "A"})
	_, err := SelectKeepers(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, g.IDs())
}

func TestSelectKeepersTooSmall(t *testing.T) {
	_, err := SelectKeepers(group(types.Song{ID: "solo"}))
	assert.ErrorIs(t, err, ErrGroupTooSmall)

	_, err = SelectKeepers(types.DuplicateGroup{})
	assert.ErrorIs(t, err, ErrGroupTooSmall)
}

func TestNewSelectorInvalidLocale(t *testing.T) {
	_, err := NewSelector("!!")
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)

	s, err := NewSelector("de-CH")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestEffectiveDate(t *testing.T) {
	tests := []struct {
		name string
		song types.Song
		want time.Time
	}{
		{"date only", types.Song{CreatedAt: "2024-01-01"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 with offset", types.Song{CreatedAt: "2024-01-01T02:00:00+02:00"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"fractional seconds", types.Song{CreatedAt: "2024-01-01T00:00:00.123Z"}, time.Date(2024, 1, 1, 0, 0, 0, 123000000, time.UTC)},
		{"space separated", types.Song{CreatedAt: "2024-01-01 08:30:00"}, time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)},
		{"falls back to updated", types.Song{UpdatedAt: "2020-02-02"}, time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC)},
		{"blank created falls back", types.Song{CreatedAt: "  ", UpdatedAt: "2020-02-02"}, time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC)},
		{"none", types.Song{}, Epoch},
		{"unparseable", types.Song{CreatedAt: "01/02/2024"}, Epoch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(EffectiveDate(tt.song)), "got %v", EffectiveDate(tt.song))
		})
	}
}

// --- report resolution ---

func TestResolveReportUnionsRemovals(t *testing.T) {
	a := types.Song{ID: "a", Title: "Holy", HasAudio: true}
	b := types.Song{ID: "b", Title: "holy"}
	c := types.Song{ID: "c", Title: "Holy Spirit", HasImage: true}
	d := types.Song{ID: "d", Title: "Other", Lyrics: "words", HasAudio: true, HasImage: true}

	report := types.NewDuplicateReport()
	report.ExactTitles = []types.DuplicateGroup{group(a, b)}
	report.SimilarTitles = []types.DuplicateGroup{group(a, b, c)}
	report.SimilarLyrics = []types.DuplicateGroup{group(a, d)}

	res, err := newSelector(t).ResolveReport(report)
	require.NoError(t, err)

	require.Len(t, res.Groups, 3)
	assert.Equal(t, "a", res.Groups[0].Keeper.ID)
	assert.Equal(t, "a", res.Groups[1].Keeper.ID)
	assert.Equal(t, "d", res.Groups[2].Keeper.ID)
	assert.Equal(t, types.FieldTitle, res.Groups[0].Field)

	assert.Equal(t, []string{"a", "b", "c"}, res.Removals.IDs())
	assert.Equal(t, []string{"a"}, res.Conflicts)

	res.Keep(res.Conflicts...)
	assert.Equal(t, []string{"b", "c"}, res.Removals.IDs())
}

func TestResolveReportEmpty(t *testing.T) {
	res, err := newSelector(t).ResolveReport(types.NewDuplicateReport())
	require.NoError(t, err)
	assert.Empty(t, res.Groups)
	assert.Zero(t, res.Removals.Len())
	assert.Empty(t, res.Conflicts)
}

func TestResolveReportRejectsUndersizedGroup(t *testing.T) {
	report := types.NewDuplicateReport()
	report.ExactLyrics = []types.DuplicateGroup{group(types.Song{ID: "x"})}
	_, err := newSelector(t).ResolveReport(report)
	assert.ErrorIs(t, err, ErrGroupTooSmall)
}
