package stats

import (
	"sort"

	"github.com/verte-zerg/bihua/internal/writing"
)

// SelectWeakChars selects the characters with the lowest average accuracy.
func SelectWeakChars(progress []writing.WritingProgress, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	if len(progress) == 0 {
		return weakSet
	}
	candidates := make([]writing.WritingProgress, len(progress))
	copy(candidates, progress)
	sortByAccuracy(candidates, func(p writing.WritingProgress) (float64, string) {
		return p.AverageAccuracy, p.CharacterID
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		if candidates[i].MasteryLevel == writing.MasteryMastered {
			break
		}
		weakSet[candidates[i].CharacterID] = struct{}{}
	}
	return weakSet
}

func sortByAccuracy[T any](items []T, key func(T) (float64, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ai, ci := key(items[i])
		aj, cj := key(items[j])
		if ai == aj {
			return ci < cj
		}
		return ai < aj
	})
}
