package stats

import (
	"testing"

	"github.com/verte-zerg/bihua/internal/writing"
)

func TestTopCharsByAttempts(t *testing.T) {
	progress := []writing.WritingProgress{
		{CharacterID: "口", TotalAttempts: 3},
		{CharacterID: "大", TotalAttempts: 4},
		{CharacterID: "人", TotalAttempts: 4},
		{CharacterID: "一", TotalAttempts: 1},
	}
	top := TopCharsByAttempts(progress, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != "人" || top[1] != "大" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopCharsByAttempts(progress, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
