// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manuscript

import "github.com/pdiddy/manuscript-press/pkg/types"

// AffiliationIndex maps each author to an index into the deduplicated
// affiliation list. Matching is exact and case-sensitive; indices are
// assigned in first-appearance order, so the mapping is stable across
// re-renders of unchanged input. Authors with an empty affiliation get
// index -1 and contribute no list entry. The index is derived, recomputed
// whenever the author list changes, never stored on the model.
type AffiliationIndex struct {
	// Affiliations is the deduplicated list in first-appearance order.
	Affiliations []string

	// ByAuthor holds, per author position, the index into Affiliations
	// (or -1 for authors without one).
	ByAuthor []int
}

// IndexAffiliations computes the affiliation index for the given authors.
func IndexAffiliations(authors []types.Author) AffiliationIndex {
	idx := AffiliationIndex{ByAuthor: make([]int, len(authors))}
	seen := make(map[string]int)

	for i, a := range authors {
		if a.Affiliation == "" {
			idx.ByAuthor[i] = -1
			continue
		}
		pos, ok := seen[a.Affiliation]
		if !ok {
			pos = len(idx.Affiliations)
			idx.Affiliations = append(idx.Affiliations, a.Affiliation)
			seen[a.Affiliation] = pos
		}
		idx.ByAuthor[i] = pos
	}
	return idx
}
