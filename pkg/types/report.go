// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Field names the song attribute a check compares.
type Field string

const (
	FieldTitle  Field = "title"
	FieldLyrics Field = "lyrics"
)

// Optional reports whether songs with an empty value for the field are
// left out of comparisons. Lyrics are optional; titles are not.
func (f Field) Optional() bool {
	return f == FieldLyrics
}

// Value returns the raw field value of s.
func (f Field) Value(s Song) string {
	if f == FieldLyrics {
		return s.Lyrics
	}
	return s.Title
}

// MatchMode distinguishes byte-identical matches from threshold matches.
type MatchMode string

const (
	ModeExact   MatchMode = "exact"
	ModeSimilar MatchMode = "similar"
)

// DuplicateGroup holds two or more songs connected under one check.
// Songs are in input order; Indices holds their positions in the slice
// passed to the engine.
type DuplicateGroup struct {
	Field   Field     `json:"field" yaml:"field"`
	Mode    MatchMode `json:"mode" yaml:"mode"`
	Songs   []Song    `json:"songs" yaml:"songs"`
	Indices []int     `json:"indices" yaml:"indices"`
}

// IDs returns the member IDs in group order.
func (g DuplicateGroup) IDs() []string {
	ids := make([]string, len(g.Songs))
	for i, s := range g.Songs {
		ids[i] = s.ID
	}
	return ids
}

// DuplicateReport holds the four independent group collections. A song
// can appear in more than one collection, but at most once per collection.
type DuplicateReport struct {
	ExactTitles   []DuplicateGroup `json:"exact_titles" yaml:"exact_titles"`
	SimilarTitles []DuplicateGroup `json:"similar_titles" yaml:"similar_titles"`
	ExactLyrics   []DuplicateGroup `json:"exact_lyrics" yaml:"exact_lyrics"`
	SimilarLyrics []DuplicateGroup `json:"similar_lyrics" yaml:"similar_lyrics"`
}

// NewDuplicateReport returns a report whose collections are empty, not nil.
func NewDuplicateReport() DuplicateReport {
	return DuplicateReport{
		ExactTitles:   []DuplicateGroup{},
		SimilarTitles: []DuplicateGroup{},
		ExactLyrics:   []DuplicateGroup{},
		SimilarLyrics: []DuplicateGroup{},
	}
}

// Groups returns every group in the report, collection by collection in
// the order exact titles, similar titles, exact lyrics, similar lyrics.
func (r DuplicateReport) Groups() []DuplicateGroup {
	n := len(r.ExactTitles) + len(r.SimilarTitles) + len(r.ExactLyrics) + len(r.SimilarLyrics)
	all := make([]DuplicateGroup, 0, n)
	all = append(all, r.ExactTitles...)
	all = append(all, r.SimilarTitles...)
	all = append(all, r.ExactLyrics...)
	all = append(all, r.SimilarLyrics...)
	return all
}

// Empty reports whether no collection holds a group.
func (r DuplicateReport) Empty() bool {
	return len(r.ExactTitles) == 0 && len(r.SimilarTitles) == 0 &&
		len(r.ExactLyrics) == 0 && len(r.SimilarLyrics) == 0
}
