// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned when check options are out of range.
// Report building fails with it before any comparison runs.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ClusterStrategy selects how similar songs are grouped.
type ClusterStrategy string

const (
	// ClusterGreedy anchors every group on its first unprocessed song and
	// only adds songs similar to that anchor. Results depend on input order.
	ClusterGreedy ClusterStrategy = "greedy"

	// ClusterComponents groups songs by connected components over all
	// pairwise matches (full transitive closure).
	ClusterComponents ClusterStrategy = "components"
)

const (
	DefaultTitleSimilarityThreshold  = 0.8
	DefaultLyricsSimilarityThreshold = 0.9
)

// CheckOptions selects which duplicate checks run and their thresholds.
type CheckOptions struct {
	CheckExactTitles   bool `json:"check_exact_titles" yaml:"check_exact_titles" mapstructure:"check_exact_titles"`
	CheckSimilarTitles bool `json:"check_similar_titles" yaml:"check_similar_titles" mapstructure:"check_similar_titles"`
	CheckExactLyrics   bool `json:"check_exact_lyrics" yaml:"check_exact_lyrics" mapstructure:"check_exact_lyrics"`
	CheckSimilarLyrics bool `json:"check_similar_lyrics" yaml:"check_similar_lyrics" mapstructure:"check_similar_lyrics"`

	// TitleSimilarityThreshold is the minimum ratio in [0,1] for two
	// titles to be similar (default 0.8).
	TitleSimilarityThreshold float64 `json:"title_similarity_threshold" yaml:"title_similarity_threshold" mapstructure:"title_similarity_threshold"`

	// LyricsSimilarityThreshold is the minimum ratio in [0,1] for two
	// lyrics bodies to be similar (default 0.9).
	LyricsSimilarityThreshold float64 `json:"lyrics_similarity_threshold" yaml:"lyrics_similarity_threshold" mapstructure:"lyrics_similarity_threshold"`

	// Clustering selects the similar-group strategy. Empty means greedy.
	Clustering ClusterStrategy `json:"clustering,omitempty" yaml:"clustering,omitempty" mapstructure:"clustering"`
}

// DefaultCheckOptions enables every check with the default thresholds.
func DefaultCheckOptions() CheckOptions {
	return CheckOptions{
		CheckExactTitles:          true,
		CheckSimilarTitles:        true,
		CheckExactLyrics:          true,
		CheckSimilarLyrics:        true,
		TitleSimilarityThreshold:  DefaultTitleSimilarityThreshold,
		LyricsSimilarityThreshold: DefaultLyricsSimilarityThreshold,
		Clustering:                ClusterGreedy,
	}
}

// Validate checks thresholds and strategy. Both thresholds are checked
// even when the checks using them are disabled.
func (o CheckOptions) Validate() error {
	if err := validThreshold("title similarity threshold", o.TitleSimilarityThreshold); err != nil {
		return err
	}
	if err := validThreshold("lyrics similarity threshold", o.LyricsSimilarityThreshold); err != nil {
		return err
	}
	switch o.Clustering {
	case "", ClusterGreedy, ClusterComponents:
	default:
		return fmt.Errorf("%w: unknown clustering strategy %q (want %s or %s)",
			ErrInvalidConfiguration, o.Clustering, ClusterGreedy, ClusterComponents)
	}
	return nil
}

func validThreshold(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in [0,1] (got %v)", ErrInvalidConfiguration, name, v)
	}
	return nil
}

// DedupConfig holds settings for the scan and resolve commands.
type DedupConfig struct {
	CheckOptions `yaml:",inline" mapstructure:",squash"`

	// Locale is the BCP 47 tag used to collate titles when breaking ties
	// between duplicates (default "en").
	Locale string `json:"locale" yaml:"locale" mapstructure:"locale"`
}

// LibraryConfig holds settings for the SQLite song library.
type LibraryConfig struct {
	// LibraryDir is the directory holding songs.db (default "library").
	LibraryDir string `json:"library_dir" yaml:"library_dir" mapstructure:"library_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File, when set, receives a JSON copy of every log record.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Config groups all songdedup settings as read from songdedup.yaml.
type Config struct {
	Dedup   DedupConfig   `json:"dedup" yaml:"dedup" mapstructure:"dedup"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
