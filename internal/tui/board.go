package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/bihua/internal/canvas"
	"github.com/verte-zerg/bihua/internal/writing"
)

const (
	headerRows    = 2
	reservedRows  = headerRows + 1 + feedbackRows + 2
	feedbackRows  = 3
	minBoardRows  = 4
	defaultRows   = 12
	maxBoardRows  = 30
	dashOn        = 2
	dashPeriod    = 4
	diagonalDashP = 6
)

// board is the screen rectangle the drawing canvas occupies. One cell holds 2x4 braille
// dots, so a board twice as wide as it is tall has a square dot raster.
type board struct {
	left int
	top  int
	cols int
	rows int
}

func layoutBoard(width, height int) board {
	rows := defaultRows
	if width > 0 && height > 0 {
		rows = min(height-reservedRows, (width-2)/2, maxBoardRows)
	}
	rows = max(rows, minBoardRows)
	cols := rows * 2
	left := 0
	if width > cols {
		left = (width - cols) / 2
	}
	return board{left: left, top: headerRows, cols: cols, rows: rows}
}

func (b board) contains(x, y int) bool {
	return x >= b.left && x < b.left+b.cols && y >= b.top && y < b.top+b.rows
}

// toCanvas maps a terminal cell to the centre of the matching canvas area, clamped to
// the canvas so a drag leaving the board still extends the stroke along the edge.
func (b board) toCanvas(x, y int) writing.Point {
	cx := clamp(float64(x-b.left)+0.5, 0, float64(b.cols))
	cy := clamp(float64(y-b.top)+0.5, 0, float64(b.rows))
	return writing.Point{
		X: cx * writing.CanvasSize / float64(b.cols),
		Y: cy * writing.CanvasSize / float64(b.rows),
	}
}

// cellSize is the canvas distance covered by one terminal column.
func (b board) cellSize() float64 {
	return writing.CanvasSize / float64(b.cols)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// layer order is draw priority: the first layer with a dot in a cell picks its colour.
const (
	layerActive = iota
	layerDrawn
	layerGood
	layerFair
	layerPoor
	layerReference
	layerGuide
	layerCount
)

var layerStyles = [layerCount]lipgloss.Style{
	layerActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
	layerDrawn:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")),
	layerGood:      lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
	layerFair:      lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
	layerPoor:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	layerReference: lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	layerGuide:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
}

type raster struct {
	b      board
	layers []*canvas.Grid
}

func newRaster(b board) *raster {
	layers := make([]*canvas.Grid, layerCount)
	for i := range layers {
		layers[i] = canvas.NewGrid(b.cols, b.rows)
	}
	return &raster{b: b, layers: layers}
}

func (r *raster) dot(p writing.Point) (int, int) {
	g := r.layers[0]
	x := int(math.Round(p.X / writing.CanvasSize * float64(g.DotWidth()-1)))
	y := int(math.Round(p.Y / writing.CanvasSize * float64(g.DotHeight()-1)))
	return x, y
}

func (r *raster) segment(layer int, a, b writing.Point) {
	x0, y0 := r.dot(a)
	x1, y1 := r.dot(b)
	r.layers[layer].Line(x0, y0, x1, y1)
}

func (r *raster) polyline(layer int, points []writing.Point) {
	switch len(points) {
	case 0:
		return
	case 1:
		x, y := r.dot(points[0])
		r.layers[layer].Set(x, y)
		return
	}
	for i := 1; i < len(points); i++ {
		r.segment(layer, points[i-1], points[i])
	}
}

func (r *raster) dashed(a, b writing.Point, period int) {
	x0, y0 := r.dot(a)
	x1, y1 := r.dot(b)
	step := 0
	g := r.layers[layerGuide]
	canvas.DrawLine(x0, y0, x1, y1, func(x, y int) {
		if step%period < dashOn {
			g.Set(x, y)
		}
		step++
	})
}

// guide draws the 米 practice grid: a frame, the centre cross, and both diagonals.
func (r *raster) guide() {
	const s = writing.CanvasSize
	corners := []writing.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}
	for i := range corners {
		r.dashed(corners[i], corners[(i+1)%len(corners)], dashPeriod)
	}
	r.dashed(writing.Point{X: s / 2, Y: 0}, writing.Point{X: s / 2, Y: s}, dashPeriod)
	r.dashed(writing.Point{X: 0, Y: s / 2}, writing.Point{X: s, Y: s / 2}, dashPeriod)
	r.dashed(corners[0], corners[2], diagonalDashP)
	r.dashed(corners[1], corners[3], diagonalDashP)
}

// reference draws the first `done` strokes fully and the next one up to fraction t.
func (r *raster) reference(strokes []writing.CharacterStroke, done int, t float64) {
	for i, s := range strokes {
		switch {
		case i < done:
			r.segment(layerReference, s.StartPoint, s.EndPoint)
		case i == done && t > 0:
			r.segment(layerReference, s.StartPoint, writing.Lerp(s.StartPoint, s.EndPoint, t))
		}
	}
}

func scoreLayer(score int) int {
	switch {
	case score >= writing.VeryGoodScore:
		return layerGood
	case score >= writing.PassScore:
		return layerFair
	default:
		return layerPoor
	}
}

func (r *raster) render() string {
	lines := make([]string, r.b.rows)
	pad := strings.Repeat(" ", r.b.left)
	for row := 0; row < r.b.rows; row++ {
		var sb strings.Builder
		sb.WriteString(pad)
		for col := 0; col < r.b.cols; col++ {
			mask, layer := canvas.Compose(r.layers, col, row)
			if layer < 0 {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(layerStyles[layer].Render(string(canvas.Braille(mask))))
		}
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}
