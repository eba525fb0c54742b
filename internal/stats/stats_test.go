package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/writing"
)

func sampleSessions() []model.SessionAggregate {
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	return []model.SessionAggregate{
		{SessionID: "a", CharacterID: "人", EndedAt: base, Accuracy: 60, Attempts: 3, CompletionMs: 40000},
		{SessionID: "b", CharacterID: "人", EndedAt: base.Add(time.Hour), Accuracy: 80, Attempts: 1, Completed: true, CompletionMs: 20000},
		{SessionID: "c", CharacterID: "大", EndedAt: base.Add(2 * time.Hour), Accuracy: 94, Attempts: 2, Completed: true, CompletionMs: 10000},
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(sampleSessions())
	if sum.Sessions != 3 || sum.Passed != 2 || sum.Attempts != 6 {
		t.Fatalf("unexpected counts %+v", sum)
	}
	if sum.BestAccuracy != 94 {
		t.Fatalf("expected best 94, got %d", sum.BestAccuracy)
	}
	if sum.AvgAccuracy < 77.99 || sum.AvgAccuracy > 78.01 {
		t.Fatalf("expected avg 78, got %v", sum.AvgAccuracy)
	}
	if sum.AvgCompletion != 15*time.Second {
		t.Fatalf("expected avg completion over passed sessions, got %v", sum.AvgCompletion)
	}
	if Summarize(nil).PassRate() != 0 {
		t.Fatalf("expected zero pass rate for no sessions")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("expected extremes, got %q", got)
	}
}

func TestRenderSummaryAndTables(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleSessions()); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "Passed: 2 (67%)") {
		t.Fatalf("unexpected summary %q", buf.String())
	}

	buf.Reset()
	rows := []model.CharAggregate{
		{Character: "大", Pinyin: "dà", Progress: writing.WritingProgress{AverageAccuracy: 94, MasteryLevel: writing.MasteryMastered}},
		{Character: "人", Pinyin: "rén", Progress: writing.WritingProgress{AverageAccuracy: 70, MasteryLevel: writing.MasteryPracticing, FastestTime: 20 * time.Second}},
	}
	if err := RenderProgressTable(&buf, rows); err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 4 || !strings.HasPrefix(lines[2], "人") || !strings.HasPrefix(lines[3], "大") {
		t.Fatalf("expected weakest character first, got %q", buf.String())
	}
	if !strings.Contains(lines[2], "20.0s") {
		t.Fatalf("expected fastest time in row, got %q", lines[2])
	}

	buf.Reset()
	if err := RenderCharCurves(&buf, sampleSessions(), []string{"人", "口"}, 2); err != nil {
		t.Fatalf("render char curves: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Char 人") || !strings.Contains(out, "Char 口: no sessions") {
		t.Fatalf("unexpected char curves %q", out)
	}
}

func TestSelectWeakChars(t *testing.T) {
	progress := []writing.WritingProgress{
		{CharacterID: "大", AverageAccuracy: 95, MasteryLevel: writing.MasteryMastered},
		{CharacterID: "人", AverageAccuracy: 55, MasteryLevel: writing.MasteryLearning},
		{CharacterID: "口", AverageAccuracy: 72, MasteryLevel: writing.MasteryPracticing},
	}
	weak := SelectWeakChars(progress, 5)
	if len(weak) != 2 {
		t.Fatalf("expected mastered characters to be skipped, got %v", weak)
	}
	if _, ok := weak["人"]; !ok {
		t.Fatalf("expected 人 to be weak")
	}
	one := SelectWeakChars(progress, 1)
	if _, ok := one["人"]; !ok || len(one) != 1 {
		t.Fatalf("expected only 人, got %v", one)
	}
}

func TestMasteryCounts(t *testing.T) {
	counts := MasteryCounts([]writing.WritingProgress{
		{MasteryLevel: writing.MasteryLearning},
		{MasteryLevel: writing.MasteryLearning},
		{MasteryLevel: writing.MasteryMastered},
	})
	if counts[writing.MasteryLearning] != 2 || counts[writing.MasteryMastered] != 1 || counts[writing.MasteryPracticing] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}
