// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"sort"

	"github.com/pdiddy/songdedup/pkg/types"
)

// GroupResolution is the selection made for one group of the report.
type GroupResolution struct {
	Field types.Field     `json:"field" yaml:"field"`
	Mode  types.MatchMode `json:"mode" yaml:"mode"`
	Selection `yaml:",inline"`
}

// Resolution is the outcome of resolving a whole report.
type Resolution struct {
	Groups []GroupResolution `json:"groups" yaml:"groups"`

	// Removals is the union of removable IDs over every group in every
	// collection.
	Removals types.RemovalSet `json:"-" yaml:"-"`

	// Conflicts lists IDs, ascending, that keep one group but are
	// removable in another. They stay in Removals; callers that want
	// keepers to win call Keep(r.Conflicts...).
	Conflicts []string `json:"conflicts" yaml:"conflicts"`
}

// Keep removes ids from the removal set.
func (r *Resolution) Keep(ids ...string) {
	r.Removals.Remove(ids...)
}

// ResolveReport ranks every group in report and unions the removable IDs.
// Collections are resolved independently; the engine does not arbitrate
// between a song kept in one collection and removed in another beyond
// reporting it in Conflicts.
func (s *Selector) ResolveReport(report types.DuplicateReport) (Resolution, error) {
	res := Resolution{
		Groups:    []GroupResolution{},
		Removals:  types.NewRemovalSet(),
		Conflicts: []string{},
	}
	keepers := make(map[string]bool)

	for _, g := range report.Groups() {
		sel, err := s.SelectKeepers(g)
		if err != nil {
			return Resolution{}, err
		}
		res.Groups = append(res.Groups, GroupResolution{Field: g.Field, Mode: g.Mode, Selection: sel})
		keepers[sel.Keeper.ID] = true
		res.Removals.Add(sel.RemovableIDs()...)
	}

	for id := range keepers {
		if res.Removals.Contains(id) {
			res.Conflicts = append(res.Conflicts, id)
		}
	}
	sort.Strings(res.Conflicts)
	return res, nil
}
