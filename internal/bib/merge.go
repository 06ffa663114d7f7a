// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import "github.com/openpress/bibnorm/pkg/types"

// MergeBibentryArrays combines two ordered entry lists into a new,
// densely indexed list; the inputs are never mutated. Without
// deduplication the result is simply a then b. With removeDuplicates
// set, a is first deduplicated against itself (the first of each
// duplicate run wins), then each entry of b is kept only if it matches
// nothing already selected — including earlier entries of b. Relative
// order within each source list is always preserved; the contract is
// order and membership, not index values.
func MergeBibentryArrays(a, b []types.Bibentry, removeDuplicates bool, cfg types.MatchConfig) []types.Bibentry {
	merged := make([]types.Bibentry, 0, len(a)+len(b))

	if !removeDuplicates {
		merged = append(merged, a...)
		merged = append(merged, b...)
		return merged
	}

	for _, entry := range a {
		if !matchesAny(merged, entry, cfg) {
			merged = append(merged, entry)
		}
	}
	for _, entry := range b {
		if !matchesAny(merged, entry, cfg) {
			merged = append(merged, entry)
		}
	}
	return merged
}

func matchesAny(selected []types.Bibentry, candidate types.Bibentry, cfg types.MatchConfig) bool {
	for _, s := range selected {
		if Match(s, candidate, cfg) {
			return true
		}
	}
	return false
}
