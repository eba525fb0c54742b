package writing

import (
	"math"
	"time"
)

// MasteryLevel is the three-tier classification derived from average accuracy.
type MasteryLevel string

const (
	MasteryLearning   MasteryLevel = "learning"
	MasteryPracticing MasteryLevel = "practicing"
	MasteryMastered   MasteryLevel = "mastered"
)

// MasteryFor maps an average accuracy to its mastery level.
func MasteryFor(average float64) MasteryLevel {
	switch {
	case average >= MasteredScore:
		return MasteryMastered
	case average >= PassScore:
		return MasteryPracticing
	default:
		return MasteryLearning
	}
}

// WritingProgress is the per-character practice history of a learner.
type WritingProgress struct {
	CharacterID     string
	TotalAttempts   int
	BestAccuracy    int
	AverageAccuracy float64
	FastestTime     time.Duration
	LastPracticed   time.Time
	MasteryLevel    MasteryLevel
	StreakDays      int
}

// AverageScore returns the running average rounded to the nearest integer.
func (p WritingProgress) AverageScore() int {
	return int(math.Round(p.AverageAccuracy))
}

// UpdateProgress folds a finished session into the progress record and returns the new
// record. existing may be nil for a first session. The average is a plain running mean
// over recorded sessions; BestAccuracy never decreases.
func (t *Tracker) UpdateProgress(existing *WritingProgress, session WritingSession) WritingProgress {
	now := t.now()
	score := session.Accuracy
	if existing == nil {
		p := WritingProgress{
			CharacterID:     session.CharacterID,
			TotalAttempts:   1,
			BestAccuracy:    score,
			AverageAccuracy: float64(score),
			LastPracticed:   now,
			StreakDays:      1,
		}
		if session.IsCompleted {
			p.FastestTime = session.CompletionTime
		}
		p.MasteryLevel = MasteryFor(p.AverageAccuracy)
		return p
	}

	p := *existing
	p.TotalAttempts++
	n := float64(p.TotalAttempts)
	p.AverageAccuracy = (existing.AverageAccuracy*(n-1) + float64(score)) / n
	p.BestAccuracy = max(existing.BestAccuracy, score)
	if session.IsCompleted && (p.FastestTime == 0 || session.CompletionTime < p.FastestTime) {
		p.FastestTime = session.CompletionTime
	}
	p.StreakDays = nextStreak(existing.StreakDays, existing.LastPracticed, now)
	p.LastPracticed = now
	p.MasteryLevel = MasteryFor(p.AverageAccuracy)
	return p
}

// nextStreak counts consecutive calendar days of practice in the local time zone.
func nextStreak(streak int, last, now time.Time) int {
	if last.IsZero() || streak <= 0 {
		return 1
	}
	days := calendarDaysBetween(last, now)
	switch {
	case days <= 0:
		return streak
	case days == 1:
		return streak + 1
	default:
		return 1
	}
}

func calendarDaysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
