package writing

import (
	"strconv"
	"strings"
	"time"
)

// StrokePath is one finalized user stroke, captured between gesture-down and gesture-up.
type StrokePath struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Points    []Point   `json:"points"`
	Timestamp time.Time `json:"timestamp"`
	Order     int       `json:"order"`
}

// NewStrokePath builds a stroke from its points, filling in the serialized path.
func NewStrokePath(id string, order int, points []Point, ts time.Time) StrokePath {
	pts := make([]Point, len(points))
	copy(pts, points)
	return StrokePath{
		ID:        id,
		Path:      SerializePath(pts),
		Points:    pts,
		Timestamp: ts,
		Order:     order,
	}
}

// SerializePath encodes points as an SVG-style move/line path.
func SerializePath(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Y))
	}
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
