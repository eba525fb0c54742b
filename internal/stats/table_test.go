package stats

import "testing"

func TestLayoutTableAlignsWideGlyphs(t *testing.T) {
	cols := []column{{title: "Char"}, {title: "Avg", right: true}, {title: "Attempts", right: true}}
	lines := layoutTable(cols, [][]string{
		{"人", "97.5", "12"},
		{"口", "8.0", "3"},
	})
	want := []string{
		"Char  Avg Attempts",
		"人   97.5       12",
		"口    8.0        3",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestLayoutTableTrimsTrailingPadding(t *testing.T) {
	cols := []column{{title: "Char"}, {title: "Hán Việt"}}
	lines := layoutTable(cols, [][]string{{"大", ""}})
	if lines[1] != "大" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[1])
	}
}
