package writing

import "math"

// StrokeScore is the per-component breakdown of a stroke evaluation.
type StrokeScore struct {
	Start      float64   `json:"start"`
	End        float64   `json:"end"`
	Direction  float64   `json:"direction"`
	Smoothness float64   `json:"smoothness"`
	Total      int       `json:"total"`
	Detected   Direction `json:"detected"`
	Target     Direction `json:"target"`
}

// Evaluator scores single strokes against their reference definition.
type Evaluator struct {
	params Params
}

// NewEvaluator returns an Evaluator using p. Callers should validate p first.
func NewEvaluator(p Params) *Evaluator {
	return &Evaluator{params: p}
}

// Params returns the scoring constants in use.
func (e *Evaluator) Params() Params {
	return e.params
}

// EvaluateStroke returns the 0-100 accuracy of a user stroke against its target stroke.
func (e *Evaluator) EvaluateStroke(user StrokePath, target CharacterStroke) int {
	return e.ScoreStroke(user, target).Total
}

// ScoreStroke computes the weighted composite of start point, end point, direction, and
// smoothness accuracy. Strokes with fewer than two points score zero.
func (e *Evaluator) ScoreStroke(user StrokePath, target CharacterStroke) StrokeScore {
	points := user.Points
	if len(points) < 2 {
		return StrokeScore{Target: target.Direction}
	}
	p := e.params
	score := StrokeScore{
		Start:      p.pointAccuracy(points[0], target.StartPoint),
		End:        p.pointAccuracy(points[len(points)-1], target.EndPoint),
		Detected:   p.ClassifyDirection(points),
		Smoothness: p.smoothness(points),
		Target:     target.Direction,
	}
	score.Direction = p.MismatchCredit
	if Compatible(target.Direction, score.Detected) {
		score.Direction = 100
	}
	total := p.StartWeight*score.Start +
		p.EndWeight*score.End +
		p.DirectionWeight*score.Direction +
		p.SmoothnessWeight*score.Smoothness
	score.Total = clampScore(int(math.Round(total)))
	return score
}

func (p Params) pointAccuracy(got, want Point) float64 {
	d := Distance(got, want)
	return clampFloat(100-(d/p.Tolerance)*100, 0, 100)
}

// smoothness penalizes inconsistent turning: a straight line or an even arc scores 100.
func (p Params) smoothness(points []Point) float64 {
	turns := turningAngles(points)
	if len(turns) < 2 {
		return 100
	}
	sum := 0.0
	for i := 1; i < len(turns); i++ {
		sum += math.Abs(turns[i] - turns[i-1])
	}
	avg := sum / float64(len(turns)-1)
	return clampFloat(100-avg*p.SmoothnessFactor, 0, 100)
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
