// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/songdedup/internal/dedup"
	"github.com/pdiddy/songdedup/internal/library"
	"github.com/pdiddy/songdedup/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Report duplicate songs by title and lyrics",
	Long: `Scan compares every song's title and lyrics after normalization
(case, punctuation, and spacing are ignored) and reports four independent
collections of duplicate groups: exact titles, similar titles, exact
lyrics, and similar lyrics. Songs without lyrics never match on lyrics.

Similar checks use edit-distance similarity and are quadratic in the
number of songs; they are meant for libraries of up to a few thousand.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	cfg, err := dedupConfig(cmd)
	if err != nil {
		return err
	}
	songs, err := loadSongs(ctx, cmd)
	if err != nil {
		return err
	}
	report, err := buildReport(ctx, songs, cfg.CheckOptions)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeReport(report, format, cmd.OutOrStdout())
}

// buildReport runs the engine and logs a summary.
func buildReport(ctx context.Context, songs []types.Song, opts types.CheckOptions) (types.DuplicateReport, error) {
	start := time.Now()
	report, err := dedup.BuildReport(ctx, songs, opts)
	if err != nil {
		return types.DuplicateReport{}, fmt.Errorf("scanning for duplicates: %w", err)
	}
	logger.Info("scan finished",
		"songs", len(songs),
		"exact_titles", len(report.ExactTitles),
		"similar_titles", len(report.SimilarTitles),
		"exact_lyrics", len(report.ExactLyrics),
		"similar_lyrics", len(report.SimilarLyrics),
		"clustering", opts.Clustering,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}

func writeReport(report types.DuplicateReport, format string, w io.Writer) error {
	switch format {
	case "table", "":
		dedup.FormatTable(report, w)
		return nil
	case "json":
		return dedup.FormatJSON(report, w)
	case "yaml":
		return dedup.FormatYAML(report, w)
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}
}

// --- shared helpers ---

// addCheckFlags registers the flags shared by scan and resolve.
func addCheckFlags(cmd *cobra.Command) {
	d := types.DefaultCheckOptions()
	cmd.Flags().String("input", "", "read songs from this YAML/JSON file instead of the library")
	cmd.Flags().Bool("exact-titles", d.CheckExactTitles, "report songs with identical normalized titles")
	cmd.Flags().Bool("similar-titles", d.CheckSimilarTitles, "report songs with similar titles")
	cmd.Flags().Bool("exact-lyrics", d.CheckExactLyrics, "report songs with identical normalized lyrics")
	cmd.Flags().Bool("similar-lyrics", d.CheckSimilarLyrics, "report songs with similar lyrics")
	cmd.Flags().Float64("title-threshold", d.TitleSimilarityThreshold, "minimum title similarity in [0,1]")
	cmd.Flags().Float64("lyrics-threshold", d.LyricsSimilarityThreshold, "minimum lyrics similarity in [0,1]")
	cmd.Flags().String("clustering", string(d.Clustering), "similar-group strategy: greedy or components")
	cmd.Flags().String("format", "table", "output format: table, json, or yaml")
}

// dedupConfig reads the dedup section of the config (file and
// environment) and applies any flags set on the command line.
func dedupConfig(cmd *cobra.Command) (types.DedupConfig, error) {
	cfg := types.DedupConfig{CheckOptions: types.DefaultCheckOptions()}
	if err := viper.UnmarshalKey("dedup", &cfg); err != nil {
		return cfg, fmt.Errorf("reading dedup config: %w", err)
	}

	flags := cmd.Flags()
	boolFlags := map[string]*bool{
		"exact-titles":   &cfg.CheckExactTitles,
		"similar-titles": &cfg.CheckSimilarTitles,
		"exact-lyrics":   &cfg.CheckExactLyrics,
		"similar-lyrics": &cfg.CheckSimilarLyrics,
	}
	for name, dst := range boolFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}
	if flags.Changed("title-threshold") {
		cfg.TitleSimilarityThreshold, _ = flags.GetFloat64("title-threshold")
	}
	if flags.Changed("lyrics-threshold") {
		cfg.LyricsSimilarityThreshold, _ = flags.GetFloat64("lyrics-threshold")
	}
	if flags.Changed("clustering") {
		s, _ := flags.GetString("clustering")
		cfg.Clustering = types.ClusterStrategy(s)
	}
	if flags.Changed("locale") {
		cfg.Locale, _ = flags.GetString("locale")
	}
	return cfg, nil
}

// loadSongs reads songs from --input when given, otherwise from the
// library.
func loadSongs(ctx context.Context, cmd *cobra.Command) ([]types.Song, error) {
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		songs, err := library.LoadFile(input)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded songs", "source", input, "count", len(songs))
		return songs, nil
	}

	store, err := library.NewStore(libraryConfig())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	songs, err := store.Songs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded songs", "source", store.Dir(), "count", len(songs))
	return songs, nil
}

func init() {
	addCheckFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}
