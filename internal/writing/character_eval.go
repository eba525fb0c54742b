package writing

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Score thresholds shared by feedback, session completion, and mastery.
const (
	PassScore       = 70
	VeryGoodScore   = 85
	MasteredScore   = 90
	StrokeCountCost = 10
)

// Evaluation is the outcome of scoring a full character attempt.
type Evaluation struct {
	CharacterID  string        `json:"characterId"`
	Found        bool          `json:"found"`
	OverallScore int           `json:"overallScore"`
	StrokeScores []int         `json:"strokeScores"`
	Details      []StrokeScore `json:"details"`
	Feedback     []string      `json:"feedback"`
	Suggestions  []string      `json:"suggestions"`
	Expected     int           `json:"expectedStrokes"`
	Drawn        int           `json:"drawnStrokes"`
}

// Passed reports whether the attempt completes a session.
func (e Evaluation) Passed() bool {
	return e.Found && e.OverallScore >= PassScore
}

// CharacterEvaluator aggregates stroke scores into a character evaluation.
type CharacterEvaluator struct {
	repo     CharacterRepository
	strokes  *Evaluator
	messages Messages
}

// NewCharacterEvaluator wires a reference repository, a stroke evaluator, and feedback copy.
func NewCharacterEvaluator(repo CharacterRepository, strokes *Evaluator, messages Messages) *CharacterEvaluator {
	return &CharacterEvaluator{repo: repo, strokes: strokes, messages: messages}
}

// EvaluateCharacter scores userStrokes in draw order against the reference strokes of characterID.
// An unknown character yields a zero score with explanatory feedback.
func (ce *CharacterEvaluator) EvaluateCharacter(characterID string, userStrokes []StrokePath) Evaluation {
	msgs := ce.messages
	char, ok := ce.repo.GetByID(characterID)
	if !ok {
		return Evaluation{
			CharacterID:  characterID,
			StrokeScores: []int{},
			Feedback:     []string{msgs.CharacterNotFound},
			Suggestions:  []string{},
			Drawn:        len(userStrokes),
		}
	}

	targets := char.OrderedStrokes()
	n := min(len(userStrokes), len(targets))
	eval := Evaluation{
		CharacterID:  characterID,
		Found:        true,
		StrokeScores: make([]int, 0, n),
		Details:      make([]StrokeScore, 0, n),
		Feedback:     make([]string, 0, n+1),
		Suggestions:  []string{},
		Expected:     len(targets),
		Drawn:        len(userStrokes),
	}
	for i := 0; i < n; i++ {
		detail := ce.strokes.ScoreStroke(userStrokes[i], targets[i])
		eval.Details = append(eval.Details, detail)
		eval.StrokeScores = append(eval.StrokeScores, detail.Total)
		eval.Feedback = append(eval.Feedback, msgs.strokeLine(i+1, detail.Total))
	}

	diff := len(userStrokes) - len(targets)
	switch {
	case len(userStrokes) == 0:
		eval.Feedback = append(eval.Feedback, msgs.NoStrokes)
	case diff < 0:
		eval.Feedback = append(eval.Feedback, fmt.Sprintf(msgs.MissingStrokes, -diff))
	case diff > 0:
		eval.Feedback = append(eval.Feedback, fmt.Sprintf(msgs.ExtraStrokes, diff))
	}

	mean := 0.0
	if n > 0 {
		mean = float64(lo.Sum(eval.StrokeScores)) / float64(n)
	}
	penalty := float64(StrokeCountCost * absInt(diff))
	eval.OverallScore = clampScore(int(math.Round(mean - penalty)))
	eval.Suggestions = ce.suggest(eval, targets)
	return eval
}

func (ce *CharacterEvaluator) suggest(eval Evaluation, targets []CharacterStroke) []string {
	msgs := ce.messages
	out := []string{}
	if eval.Drawn != eval.Expected {
		out = append(out, fmt.Sprintf(msgs.SuggestCount, len(targets)))
	}
	if len(eval.Details) == 0 {
		return out
	}
	if meanBy(eval.Details, func(d StrokeScore) float64 { return d.Start }) < PassScore {
		out = append(out, msgs.SuggestStart)
	}
	if meanBy(eval.Details, func(d StrokeScore) float64 { return d.End }) < PassScore {
		out = append(out, msgs.SuggestEnd)
	}
	for i, d := range eval.Details {
		if d.Detected != "" && !Compatible(d.Target, d.Detected) {
			out = append(out, fmt.Sprintf(msgs.SuggestDirection, i+1, msgs.direction(d.Target)))
		}
	}
	if meanBy(eval.Details, func(d StrokeScore) float64 { return d.Smoothness }) < PassScore {
		out = append(out, msgs.SuggestSmoothness)
	}
	switch {
	case eval.OverallScore >= MasteredScore:
		out = append(out, msgs.Excellent)
	case eval.OverallScore < PassScore:
		out = append(out, msgs.SuggestOrder)
	}
	return out
}

func meanBy(details []StrokeScore, f func(StrokeScore) float64) float64 {
	if len(details) == 0 {
		return 0
	}
	return lo.SumBy(details, f) / float64(len(details))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
