// Package writing implements stroke capture, stroke scoring, and writing progress tracking.
package writing

import "math"

// CanvasSize is the side of the square canvas reference strokes are defined on.
const CanvasSize = 300.0

// Point is a canvas-space coordinate.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// span returns the extent of the point set along each axis.
func span(points []Point) (dx, dy float64) {
	if len(points) == 0 {
		return 0, 0
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return maxX - minX, maxY - minY
}

// headings returns the angle of every non-degenerate segment along the path.
func headings(points []Point) []float64 {
	out := make([]float64, 0, len(points))
	for i := 1; i < len(points); i++ {
		dx := points[i].X - points[i-1].X
		dy := points[i].Y - points[i-1].Y
		if dx == 0 && dy == 0 {
			continue
		}
		out = append(out, math.Atan2(dy, dx))
	}
	return out
}

// turningAngles returns the signed heading change between consecutive segments, wrapped to (-pi, pi].
func turningAngles(points []Point) []float64 {
	hs := headings(points)
	if len(hs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(hs)-1)
	for i := 1; i < len(hs); i++ {
		out = append(out, wrapAngle(hs[i]-hs[i-1]))
	}
	return out
}

func wrapAngle(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
