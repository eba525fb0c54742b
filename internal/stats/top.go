package stats

import (
	"sort"

	"github.com/verte-zerg/bihua/internal/writing"
)

// TopCharsByAttempts returns the top N characters by recorded sessions.
func TopCharsByAttempts(progress []writing.WritingProgress, n int) []string {
	if n <= 0 || len(progress) == 0 {
		return nil
	}
	items := make([]writing.WritingProgress, len(progress))
	copy(items, progress)
	sort.Slice(items, func(i, j int) bool {
		if items[i].TotalAttempts == items[j].TotalAttempts {
			return items[i].CharacterID < items[j].CharacterID
		}
		return items[i].TotalAttempts > items[j].TotalAttempts
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].CharacterID)
	}
	return out
}
