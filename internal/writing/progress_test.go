package writing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMasteryFor(t *testing.T) {
	tests := []struct {
		avg  float64
		want MasteryLevel
	}{
		{95, MasteryMastered},
		{90, MasteryMastered},
		{89.99, MasteryPracticing},
		{75, MasteryPracticing},
		{70, MasteryPracticing},
		{69.5, MasteryLearning},
		{50, MasteryLearning},
		{0, MasteryLearning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MasteryFor(tt.avg), "average %v", tt.avg)
	}
}

func TestUpdateProgressRunningMean(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)
	scores := []int{40, 85, 73, 100, 66, 91, 58}

	var progress *WritingProgress
	sum, best := 0, 0
	for _, score := range scores {
		s := tr.CreateSession("大")
		s, _ = tr.UpdateSession(s, nil, score)
		next := tr.UpdateProgress(progress, s)
		progress = &next
		sum += score
		best = max(best, score)

		assert.Equal(t, best, progress.BestAccuracy)
		mean := float64(sum) / float64(progress.TotalAttempts)
		assert.Equal(t, int(math.Round(mean)), progress.AverageScore())
		assert.Equal(t, MasteryFor(progress.AverageAccuracy), progress.MasteryLevel)
	}
	assert.Equal(t, len(scores), progress.TotalAttempts)
	assert.Equal(t, 100, progress.BestAccuracy)
}

func TestUpdateProgressBestNeverDecreases(t *testing.T) {
	tr := newTestTracker(newFakeClock())
	existing := &WritingProgress{CharacterID: "人", TotalAttempts: 3, BestAccuracy: 92, AverageAccuracy: 80, StreakDays: 1}
	s, _ := tr.UpdateSession(tr.CreateSession("人"), nil, 10)

	next := tr.UpdateProgress(existing, s)
	assert.Equal(t, 92, next.BestAccuracy)
	assert.Equal(t, 4, next.TotalAttempts)
	assert.InDelta(t, 62.5, next.AverageAccuracy, 1e-9)
	assert.Equal(t, MasteryLearning, next.MasteryLevel)
	// The existing record is not modified.
	assert.Equal(t, 3, existing.TotalAttempts)
}

func TestUpdateProgressFastestTimeOnlyFromPassingSessions(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	slowPass := tr.CreateSession("人")
	clock.Advance(30 * time.Second)
	slowPass, _ = tr.UpdateSession(slowPass, nil, 80)
	p := tr.UpdateProgress(nil, slowPass)
	assert.Equal(t, 30*time.Second, p.FastestTime)

	quickFail := tr.CreateSession("人")
	clock.Advance(5 * time.Second)
	quickFail, _ = tr.UpdateSession(quickFail, nil, 20)
	p = tr.UpdateProgress(&p, quickFail)
	assert.Equal(t, 30*time.Second, p.FastestTime)

	quickPass := tr.CreateSession("人")
	clock.Advance(10 * time.Second)
	quickPass, _ = tr.UpdateSession(quickPass, nil, 95)
	p = tr.UpdateProgress(&p, quickPass)
	assert.Equal(t, 10*time.Second, p.FastestTime)
}

func TestUpdateProgressStreak(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)
	session := func() WritingSession {
		s, _ := tr.UpdateSession(tr.CreateSession("人"), nil, 80)
		return s
	}

	p := tr.UpdateProgress(nil, session())
	assert.Equal(t, 1, p.StreakDays)

	clock.Advance(2 * time.Hour)
	p = tr.UpdateProgress(&p, session())
	assert.Equal(t, 1, p.StreakDays, "same day keeps the streak")

	clock.Advance(24 * time.Hour)
	p = tr.UpdateProgress(&p, session())
	assert.Equal(t, 2, p.StreakDays)

	clock.Advance(24 * time.Hour)
	p = tr.UpdateProgress(&p, session())
	assert.Equal(t, 3, p.StreakDays)

	clock.Advance(72 * time.Hour)
	p = tr.UpdateProgress(&p, session())
	assert.Equal(t, 1, p.StreakDays, "a gap resets the streak")
	assert.Equal(t, clock.t, p.LastPracticed)
}
