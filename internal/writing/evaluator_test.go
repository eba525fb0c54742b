package writing

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateStrokeChordOfReferenceScoresHigh(t *testing.T) {
	eval := NewEvaluator(DefaultParams())
	for _, c := range []WritingCharacter{samplePerson(), sampleBig()} {
		for _, s := range c.Strokes {
			user := NewStrokePath("u", 0, []Point{s.StartPoint, s.EndPoint}, time.Time{})
			got := eval.EvaluateStroke(user, s)
			assert.GreaterOrEqual(t, got, 90, "%s stroke %d", c.Character, s.Order)
		}
	}
}

func TestEvaluateStrokeExactChordIsPerfect(t *testing.T) {
	eval := NewEvaluator(DefaultParams())
	target := samplePerson().Strokes[0]
	user := NewStrokePath("u", 0, []Point{target.StartPoint, target.EndPoint}, time.Time{})

	score := eval.ScoreStroke(user, target)
	assert.Equal(t, 100, score.Total)
	assert.Equal(t, DirectionDiagonal, score.Detected)
	assert.InDelta(t, 100, score.Smoothness, 1e-9)
}

func TestEvaluateStrokeDegenerateInput(t *testing.T) {
	eval := NewEvaluator(DefaultParams())
	target := samplePerson().Strokes[0]

	assert.Equal(t, 0, eval.EvaluateStroke(StrokePath{}, target))
	assert.Equal(t, 0, eval.EvaluateStroke(StrokePath{Points: []Point{}}, target))
	assert.Equal(t, 0, eval.EvaluateStroke(StrokePath{Points: []Point{target.StartPoint}}, target))
}

func TestEvaluateStrokeAlwaysInRange(t *testing.T) {
	eval := NewEvaluator(DefaultParams())
	rnd := rand.New(rand.NewSource(7))
	targets := append(samplePerson().Strokes, sampleBig().Strokes...)
	for i := 0; i < 500; i++ {
		n := rnd.Intn(12)
		pts := make([]Point, n)
		for j := range pts {
			pts[j] = Point{X: rnd.Float64()*1000 - 300, Y: rnd.Float64()*1000 - 300}
		}
		got := eval.EvaluateStroke(StrokePath{Points: pts}, targets[i%len(targets)])
		require.GreaterOrEqual(t, got, 0)
		require.LessOrEqual(t, got, 100)
	}
}

func TestEvaluateStrokeNaNPointsStayInRange(t *testing.T) {
	eval := NewEvaluator(DefaultParams())
	target := samplePerson().Strokes[0]
	pts := []Point{{X: math.NaN(), Y: 1}, {X: 2, Y: math.NaN()}}
	got := eval.EvaluateStroke(StrokePath{Points: pts}, target)
	assert.GreaterOrEqual(t, got, 0)
	assert.LessOrEqual(t, got, 100)
}

func TestEvaluateStrokeDistanceFalloff(t *testing.T) {
	eval := NewEvaluator(DefaultParams())
	target := CharacterStroke{Direction: DirectionHorizontal, StartPoint: Point{X: 0, Y: 100}, EndPoint: Point{X: 200, Y: 100}}

	// 15px off at both ends: 50% point accuracy, direction and smoothness intact.
	user := StrokePath{Points: []Point{{X: 15, Y: 100}, {X: 185, Y: 100}}}
	score := eval.ScoreStroke(user, target)
	assert.InDelta(t, 50, score.Start, 1e-9)
	assert.InDelta(t, 50, score.End, 1e-9)
	assert.Equal(t, 70, score.Total)

	// Beyond the tolerance radius point accuracy bottoms out at zero.
	far := StrokePath{Points: []Point{{X: 100, Y: 100}, {X: 300, Y: 100}}}
	score = eval.ScoreStroke(far, target)
	assert.Zero(t, score.Start)
	assert.Zero(t, score.End)
	assert.Equal(t, 40, score.Total)
}

func TestEvaluateStrokeDirectionMismatchGetsPartialCredit(t *testing.T) {
	eval := NewEvaluator(DefaultParams())
	target := CharacterStroke{Direction: DirectionVertical, StartPoint: Point{X: 100, Y: 100}, EndPoint: Point{X: 100, Y: 100}}
	user := StrokePath{Points: []Point{{X: 100, Y: 100}, {X: 101, Y: 100}}}

	score := eval.ScoreStroke(user, target)
	assert.Equal(t, DirectionDot, score.Detected)
	assert.InDelta(t, 50, score.Direction, 1e-9)
}

func TestClassifyDirection(t *testing.T) {
	p := DefaultParams()
	arc := make([]Point, 0, 5)
	for i := 0; i < 5; i++ {
		theta := float64(i) * math.Pi / 8
		arc = append(arc, Point{X: 100 + 100*math.Cos(theta), Y: 100 + 100*math.Sin(theta)})
	}
	tests := []struct {
		name   string
		points []Point
		want   Direction
	}{
		{"empty", nil, DirectionDot},
		{"tiny", []Point{{X: 10, Y: 10}, {X: 15, Y: 18}}, DirectionDot},
		{"horizontal", []Point{{X: 0, Y: 0}, {X: 100, Y: 20}}, DirectionHorizontal},
		{"vertical", []Point{{X: 0, Y: 0}, {X: 10, Y: 100}}, DirectionVertical},
		{"diagonal", []Point{{X: 0, Y: 0}, {X: 50, Y: 70}}, DirectionDiagonal},
		{"arc", arc, DirectionCurve},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ClassifyDirection(tt.points))
		})
	}
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible(DirectionCurve, DirectionHook))
	assert.True(t, Compatible(DirectionHook, DirectionCurve))
	assert.True(t, Compatible(DirectionDiagonal, DirectionDiagonal))
	assert.False(t, Compatible(DirectionHorizontal, DirectionVertical))
	assert.False(t, Compatible(DirectionDot, DirectionHorizontal))
}

func TestSmoothnessPenalizesZigzag(t *testing.T) {
	p := DefaultParams()
	zigzag := []Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 0}, {X: 30, Y: 10}, {X: 40, Y: 0}}
	assert.Zero(t, p.smoothness(zigzag))

	straight := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}}
	assert.InDelta(t, 100, p.smoothness(straight), 1e-9)

	withRepeats := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}
	assert.InDelta(t, 100, p.smoothness(withRepeats), 1e-9)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.Tolerance = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultParams()
	p.StartWeight = 0.5
	assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
}
