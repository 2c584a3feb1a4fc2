// Package reconcile merges candidate matches from multiple detectors into a
// single non-overlapping set.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/crimson-sun/scrub/internal/model"
)

// Deduplicate collapses matches with identical span and entity type,
// keeping the highest confidence seen. Output order is first-occurrence.
func Deduplicate(matches []model.Match) []model.Match {
	if len(matches) == 0 {
		return nil
	}

	type entry struct {
		idx int
	}
	seen := make(map[string]entry, len(matches))
	out := make([]model.Match, 0, len(matches))

	for _, m := range matches {
		key := fmt.Sprintf("%d:%d:%s", m.Start, m.End, m.Type)
		if e, ok := seen[key]; ok {
			if m.Confidence > out[e.idx].Confidence {
				out[e.idx] = m
			}
			continue
		}
		seen[key] = entry{idx: len(out)}
		out = append(out, m)
	}
	return out
}

// MergeOverlaps resolves overlapping spans left to right, keeping one winner
// per overlap cluster. Higher confidence wins; on a tie the longer span
// wins. Returns winners sorted by start offset.
func MergeOverlaps(matches []model.Match) []model.Match {
	if len(matches) == 0 {
		return nil
	}

	sorted := make([]model.Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	out := make([]model.Match, 0, len(sorted))
	current := sorted[0]
	for _, m := range sorted[1:] {
		if !m.Overlaps(current) {
			out = append(out, current)
			current = m
			continue
		}
		if m.Confidence > current.Confidence ||
			(m.Confidence == current.Confidence && m.Length() > current.Length()) {
			current = m
		}
	}
	out = append(out, current)
	return out
}

// Reconcile is the full pass: dedupe, then resolve overlaps.
func Reconcile(matches []model.Match) []model.Match {
	return MergeOverlaps(Deduplicate(matches))
}
