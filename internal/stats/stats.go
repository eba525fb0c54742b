// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/writing"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates finished sessions.
type Summary struct {
	Sessions      int
	Passed        int
	Attempts      int
	AvgAccuracy   float64
	BestAccuracy  int
	AvgCompletion time.Duration
}

// PassRate returns the share of sessions that reached the passing score.
func (s Summary) PassRate() float64 {
	if s.Sessions == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Sessions)
}

// Summarize computes a Summary. Completion time is averaged over passed sessions only.
func Summarize(sessions []model.SessionAggregate) Summary {
	if len(sessions) == 0 {
		return Summary{}
	}
	passed := lo.Filter(sessions, func(s model.SessionAggregate, _ int) bool {
		return s.Completed
	})
	sum := Summary{
		Sessions: len(sessions),
		Passed:   len(passed),
		Attempts: lo.SumBy(sessions, func(s model.SessionAggregate) int { return s.Attempts }),
		AvgAccuracy: float64(lo.SumBy(sessions, func(s model.SessionAggregate) int {
			return s.Accuracy
		})) / float64(len(sessions)),
		BestAccuracy: lo.MaxBy(sessions, func(a, b model.SessionAggregate) bool {
			return a.Accuracy > b.Accuracy
		}).Accuracy,
	}
	if len(passed) > 0 {
		totalMs := lo.SumBy(passed, func(s model.SessionAggregate) int64 { return s.CompletionMs })
		sum.AvgCompletion = time.Duration(totalMs/int64(len(passed))) * time.Millisecond
	}
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := lo.Min(values)
	maxVal := lo.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Passed: %d (%.0f%%)", sum.Passed, sum.PassRate()*100),
		fmt.Sprintf("Attempts: %d", sum.Attempts),
		fmt.Sprintf("Avg Accuracy: %.1f", sum.AvgAccuracy),
		fmt.Sprintf("Best Accuracy: %d", sum.BestAccuracy),
		fmt.Sprintf("Avg Completion: %s", formatDuration(sum.AvgCompletion)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for accuracy and completion time.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	return DrawChart(w, "Learning Curves", sessionCurves(sessions, window), chartOptions(totalWidth, height, useColor))
}

func chartOptions(totalWidth, height int, color bool) ChartOptions {
	opts := ChartOptions{Height: height, Color: color}
	if totalWidth > 0 {
		opts.Width = ChartWidthFor(totalWidth)
	}
	return opts
}

func sessionCurves(sessions []model.SessionAggregate, window int) []Curve {
	accs, secs := sessionSeries(sessions)
	return []Curve{
		ScoreCurve(MovingAverage(accs, window)),
		TimeCurve(MovingAverage(secs, window)),
	}
}

func sessionSeries(sessions []model.SessionAggregate) (accuracy, seconds []float64) {
	accuracy = lo.Map(sessions, func(s model.SessionAggregate, _ int) float64 {
		return float64(s.Accuracy)
	})
	seconds = lo.Map(sessions, func(s model.SessionAggregate, _ int) float64 {
		return float64(s.CompletionMs) / 1000
	})
	return accuracy, seconds
}

// RenderProgressTable prints per-character progress, weakest first.
func RenderProgressTable(w io.Writer, rows []model.CharAggregate) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No character progress found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Character Progress"); err != nil {
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range sortWeakestFirst(rows) {
		p := r.Progress
		tableRows = append(tableRows, []string{
			r.Character,
			r.Pinyin,
			r.HanViet,
			string(p.MasteryLevel),
			fmt.Sprintf("%d", p.TotalAttempts),
			fmt.Sprintf("%d", p.BestAccuracy),
			fmt.Sprintf("%.1f", p.AverageAccuracy),
			formatDuration(p.FastestTime),
			fmt.Sprintf("%d", p.StreakDays),
			p.LastPracticed.Local().Format("2006-01-02"),
		})
	}
	for _, line := range layoutTable(progressColumns, tableRows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCharCurves prints per-character learning curves.
func RenderCharCurves(w io.Writer, sessions []model.SessionAggregate, chars []string, window int) error {
	return RenderCharCurvesWithSize(w, sessions, chars, window, 0, 10, false)
}

// RenderCharCurvesWithSize prints per-character learning curves sized to a given total width.
func RenderCharCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, chars []string, window, totalWidth, height int, useColor bool) error {
	if len(chars) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Character Curves"); err != nil {
		return err
	}
	byChar := lo.GroupBy(sessions, func(s model.SessionAggregate) string { return s.CharacterID })
	opts := chartOptions(totalWidth, height, useColor)
	for _, ch := range chars {
		own := byChar[ch]
		if len(own) == 0 {
			if _, err := fmt.Fprintf(w, "Char %s: no sessions\n\n", ch); err != nil {
				return err
			}
			continue
		}
		title := fmt.Sprintf("Char %s (%d sessions)", ch, len(own))
		if err := DrawChart(w, title, sessionCurves(own, window), opts); err != nil {
			return err
		}
	}
	return nil
}

func sortWeakestFirst(rows []model.CharAggregate) []model.CharAggregate {
	out := append([]model.CharAggregate(nil), rows...)
	sortByAccuracy(out, func(r model.CharAggregate) (float64, string) {
		return r.Progress.AverageAccuracy, r.Character
	})
	return out
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// MasteryCounts counts characters per mastery level.
func MasteryCounts(progress []writing.WritingProgress) map[writing.MasteryLevel]int {
	groups := lo.GroupBy(progress, func(p writing.WritingProgress) writing.MasteryLevel {
		return p.MasteryLevel
	})
	return lo.MapValues(groups, func(ps []writing.WritingProgress, _ writing.MasteryLevel) int {
		return len(ps)
	})
}
