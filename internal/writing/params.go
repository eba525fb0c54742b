package writing

import (
	"errors"
	"math"
)

// Params holds the tunable scoring constants. The defaults reproduce the reference
// scoring behaviour; none of them is derived, they are empirical.
type Params struct {
	// Tolerance is the radius in canvas pixels at which point accuracy reaches zero.
	Tolerance float64

	StartWeight      float64
	EndWeight        float64
	DirectionWeight  float64
	SmoothnessWeight float64

	// CurvatureThreshold is the mean absolute turning angle (radians) above which a
	// non-axis stroke is classified as a curve.
	CurvatureThreshold float64

	// DotSpan is the span below which, on both axes, a stroke is a dot.
	DotSpan float64

	// AxisRatio is how dominant one axis must be for horizontal/vertical.
	AxisRatio float64

	// MismatchCredit is the direction score when directions are incompatible.
	MismatchCredit float64

	// SmoothnessFactor scales the mean turning variation into score points.
	SmoothnessFactor float64
}

// ErrInvalidParams reports scoring parameters that cannot produce a 0-100 score.
var ErrInvalidParams = errors.New("invalid scoring parameters")

// DefaultParams returns the standard scoring constants.
func DefaultParams() Params {
	return Params{
		Tolerance:          30,
		StartWeight:        0.3,
		EndWeight:          0.3,
		DirectionWeight:    0.25,
		SmoothnessWeight:   0.15,
		CurvatureThreshold: 0.3,
		DotSpan:            10,
		AxisRatio:          2,
		MismatchCredit:     50,
		SmoothnessFactor:   50,
	}
}

// Validate rejects parameters that break the score range.
func (p Params) Validate() error {
	if p.Tolerance <= 0 {
		return errors.Join(ErrInvalidParams, errors.New("tolerance must be > 0"))
	}
	weights := []float64{p.StartWeight, p.EndWeight, p.DirectionWeight, p.SmoothnessWeight}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return errors.Join(ErrInvalidParams, errors.New("weights must be >= 0"))
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-6 {
		return errors.Join(ErrInvalidParams, errors.New("weights must sum to 1"))
	}
	if p.MismatchCredit < 0 || p.MismatchCredit > 100 {
		return errors.Join(ErrInvalidParams, errors.New("mismatch credit must be between 0 and 100"))
	}
	if p.AxisRatio < 1 {
		return errors.Join(ErrInvalidParams, errors.New("axis ratio must be >= 1"))
	}
	if p.DotSpan < 0 || p.CurvatureThreshold < 0 || p.SmoothnessFactor < 0 {
		return errors.Join(ErrInvalidParams, errors.New("thresholds must be >= 0"))
	}
	return nil
}

// ClassifyDirection derives a direction from raw stroke points.
func (p Params) ClassifyDirection(points []Point) Direction {
	dx, dy := span(points)
	if dx < p.DotSpan && dy < p.DotSpan {
		return DirectionDot
	}
	if dx > p.AxisRatio*dy {
		return DirectionHorizontal
	}
	if dy > p.AxisRatio*dx {
		return DirectionVertical
	}
	if meanAbs(turningAngles(points)) > p.CurvatureThreshold {
		return DirectionCurve
	}
	return DirectionDiagonal
}

var compatibleDirections = map[Direction][]Direction{
	DirectionHorizontal: {DirectionHorizontal},
	DirectionVertical:   {DirectionVertical},
	DirectionDiagonal:   {DirectionDiagonal},
	DirectionCurve:      {DirectionCurve, DirectionHook, DirectionDiagonal},
	DirectionHook:       {DirectionHook, DirectionCurve, DirectionVertical, DirectionDiagonal},
	DirectionDot:        {DirectionDot, DirectionDiagonal},
}

// Compatible reports whether a detected direction satisfies the target direction.
func Compatible(target, detected Direction) bool {
	for _, d := range compatibleDirections[target] {
		if d == detected {
			return true
		}
	}
	return false
}

func meanAbs(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Abs(v)
	}
	return sum / float64(len(values))
}
