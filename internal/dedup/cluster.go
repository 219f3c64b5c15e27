// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"context"
	"fmt"

	"github.com/pdiddy/songdedup/internal/similarity"
	"github.com/pdiddy/songdedup/pkg/types"
)

// Clusterer groups songs whose normalized field values are at least
// threshold similar. Implementations scan in input order, skip songs
// whose optional field is absent, and return ctx.Err() if ctx is
// cancelled before they finish.
type Clusterer interface {
	Cluster(ctx context.Context, songs []types.Song, field types.Field, threshold float64) ([]types.DuplicateGroup, error)
}

// ScoreFunc returns the similarity of two normalized values in [0,1].
type ScoreFunc func(a, b string) float64

// NewClusterer returns the clusterer for strategy. An empty strategy
// selects Greedy.
func NewClusterer(strategy types.ClusterStrategy) (Clusterer, error) {
	switch strategy {
	case "", types.ClusterGreedy:
		return Greedy{}, nil
	case types.ClusterComponents:
		return Components{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown clustering strategy %q", types.ErrInvalidConfiguration, strategy)
	}
}

// Greedy anchors a group on each song not yet grouped and pulls in every
// later ungrouped song similar to that anchor. Membership is relative to
// the anchor only: if A~B and B~C but not A~C, scanning A first yields
// {A, B} and leaves C alone. Results therefore depend on input order,
// which is why the scan order is always the input order.
type Greedy struct {
	// Score defaults to similarity.Ratio.
	Score ScoreFunc
}

// Cluster implements Clusterer.
func (g Greedy) Cluster(ctx context.Context, songs []types.Song, field types.Field, threshold float64) ([]types.DuplicateGroup, error) {
	score := g.Score
	if score == nil {
		score = similarity.Ratio
	}

	entries := prepare(songs, field)
	processed := make([]bool, len(entries))
	groups := []types.DuplicateGroup{}

	for i := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if processed[i] {
			continue
		}
		processed[i] = true
		group := newGroup(field, types.ModeSimilar)
		addMember(&group, songs, entries[i].index)

		for j := i + 1; j < len(entries); j++ {
			if processed[j] {
				continue
			}
			if score(entries[i].value, entries[j].value) >= threshold {
				addMember(&group, songs, entries[j].index)
				processed[j] = true
			}
		}

		if len(group.Songs) > 1 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// Components links every pair of songs at or above threshold and returns
// the connected components with more than one member. Unlike Greedy the
// result does not depend on input order, at the cost of always scoring
// all n(n-1)/2 pairs.
type Components struct {
	// Score defaults to similarity.Ratio.
	Score ScoreFunc
}

// Cluster implements Clusterer.
func (c Components) Cluster(ctx context.Context, songs []types.Song, field types.Field, threshold float64) ([]types.DuplicateGroup, error) {
	score := c.Score
	if score == nil {
		score = similarity.Ratio
	}

	entries := prepare(songs, field)
	uf := newUnionFind(len(entries))

	for i := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(entries); j++ {
			if uf.find(i) == uf.find(j) {
				continue
			}
			if score(entries[i].value, entries[j].value) >= threshold {
				uf.union(i, j)
			}
		}
	}

	// Entries are in input order, so the first entry seen for a root
	// fixes both group order and member order.
	groupOf := make(map[int]int)
	var all []types.DuplicateGroup
	for i, e := range entries {
		root := uf.find(i)
		gi, ok := groupOf[root]
		if !ok {
			gi = len(all)
			groupOf[root] = gi
			all = append(all, newGroup(field, types.ModeSimilar))
		}
		addMember(&all[gi], songs, e.index)
	}

	groups := []types.DuplicateGroup{}
	for _, g := range all {
		if len(g.Songs) > 1 {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// unionFind is a disjoint-set forest over positions 0..n-1.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
