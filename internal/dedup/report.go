// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/songdedup/pkg/types"
)

// Builder assembles duplicate reports. The zero value picks its
// clusterer from CheckOptions.Clustering.
type Builder struct {
	// Clusterer, when set, overrides CheckOptions.Clustering for the
	// similar-title and similar-lyrics checks.
	Clusterer Clusterer
}

// BuildReport runs every check enabled in opts over songs. See Builder.Build.
func BuildReport(ctx context.Context, songs []types.Song, opts types.CheckOptions) (types.DuplicateReport, error) {
	return Builder{}.Build(ctx, songs, opts)
}

// Build validates opts, then runs each enabled check over the full song
// slice. Invalid options fail with types.ErrInvalidConfiguration before
// any comparison. Disabled checks produce empty collections.
//
// The checks run concurrently but never share state: each one writes only
// its own collection, so the report is identical to a sequential run and
// toggling one check cannot change another's groups. If ctx is cancelled
// the partial report is discarded and ctx's error returned.
func (b Builder) Build(ctx context.Context, songs []types.Song, opts types.CheckOptions) (types.DuplicateReport, error) {
	if err := opts.Validate(); err != nil {
		return types.DuplicateReport{}, err
	}

	clusterer := b.Clusterer
	if clusterer == nil {
		c, err := NewClusterer(opts.Clustering)
		if err != nil {
			return types.DuplicateReport{}, err
		}
		clusterer = c
	}

	report := types.NewDuplicateReport()
	g, gctx := errgroup.WithContext(ctx)

	if opts.CheckExactTitles {
		g.Go(func() error {
			report.ExactTitles = FindExact(songs, types.FieldTitle)
			return nil
		})
	}
	if opts.CheckSimilarTitles {
		g.Go(func() error {
			groups, err := clusterer.Cluster(gctx, songs, types.FieldTitle, opts.TitleSimilarityThreshold)
			if err != nil {
				return err
			}
			report.SimilarTitles = groups
			return nil
		})
	}
	if opts.CheckExactLyrics {
		g.Go(func() error {
			report.ExactLyrics = FindExact(songs, types.FieldLyrics)
			return nil
		})
	}
	if opts.CheckSimilarLyrics {
		g.Go(func() error {
			groups, err := clusterer.Cluster(gctx, songs, types.FieldLyrics, opts.LyricsSimilarityThreshold)
			if err != nil {
				return err
			}
			report.SimilarLyrics = groups
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.DuplicateReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.DuplicateReport{}, err
	}
	return report, nil
}
