package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/bihua/internal/canvas"
	"github.com/verte-zerg/bihua/internal/writing"
)

// Curve is one line of a learning chart. Values are drawn against [0, Max]; a zero Max
// scales the curve to its own largest value.
type Curve struct {
	Name   string
	Unit   string
	Values []float64
	Max    float64
}

// ChartOptions sizes a chart. Zero Width fits the terminal, zero Height uses
// defaultChartRows.
type ChartOptions struct {
	Width  int
	Height int
	Color  bool
}

const (
	defaultChartRows = 10
	minChartCols     = 12
	fallbackCols     = 80
	scoreScale       = 100.0
	ansiReset        = "\x1b[0m"
)

// Guide rows are drawn at the pass and mastery scores on the percentage scale.
var scoreGuides = []float64{writing.PassScore, writing.MasteredScore}

var (
	curveColors = []string{"\x1b[32m", "\x1b[36m", "\x1b[35m"}
	guideColor  = "\x1b[90m"
)

// gutterWidth is the width of the score labels plus the axis rune.
var gutterWidth = utf8.RuneCountInString(axisLabel(scoreScale, true))

// ChartWidthFor returns the number of plot columns that fit in total terminal columns.
func ChartWidthFor(total int) int {
	if total <= 0 {
		return minChartCols
	}
	return max(total-gutterWidth, minChartCols)
}

// ScoreCurve builds the accuracy curve on the fixed percentage scale.
func ScoreCurve(values []float64) Curve {
	return Curve{Name: "Accuracy", Unit: "%", Values: values, Max: scoreScale}
}

// TimeCurve builds the completion-time curve scaled to its slowest session.
func TimeCurve(values []float64) Curve {
	return Curve{Name: "Time", Unit: "s", Values: values}
}

// DrawChart writes a braille chart of curves. Rows are labelled on the percentage scale;
// curves with their own Max report their range in the legend.
func DrawChart(w io.Writer, title string, curves []Curve, opts ChartOptions) error {
	curves = nonEmptyCurves(curves)
	if len(curves) == 0 {
		return nil
	}
	cols := opts.Width
	if cols <= 0 {
		cols = ChartWidthFor(terminalCols())
	}
	cols = max(cols, minChartCols)
	rows := opts.Height
	if rows <= 0 {
		rows = defaultChartRows
	}
	color := useColor(w, opts.Color)

	layers := make([]*canvas.Grid, 0, len(curves)+1)
	for i, c := range curves {
		g := canvas.NewGrid(cols, rows)
		plotCurve(g, c, i%2 == 1)
		layers = append(layers, g)
	}
	guides := canvas.NewGrid(cols, rows)
	for _, v := range scoreGuides {
		y := dotRow(v/scoreScale, guides.DotHeight())
		for x := 0; x < guides.DotWidth(); x += 3 {
			guides.Set(x, y)
		}
	}
	layers = append(layers, guides)

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	labels := rowLabels(rows)
	for y := 0; y < rows; y++ {
		b.WriteString(labels[y])
		for x := 0; x < cols; x++ {
			mask, layer := canvas.Compose(layers, x, y)
			ch := string(canvas.Braille(mask))
			if color && layer >= 0 {
				ch = layerColor(layer, len(curves)) + ch + ansiReset
			}
			b.WriteString(ch)
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", gutterWidth))
	b.WriteString(legend(curves, color))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nonEmptyCurves(curves []Curve) []Curve {
	out := curves[:0:0]
	for _, c := range curves {
		if len(c.Values) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// plotCurve joins the curve's points with line segments, one point per session spread
// evenly across the grid. Dotted curves skip every other column.
func plotCurve(g *canvas.Grid, c Curve, dotted bool) {
	values := bucketMeans(c.Values, g.DotWidth())
	top := curveMax(c)
	set := g.Set
	if dotted {
		set = func(x, y int) {
			if x%2 == 0 {
				g.Set(x, y)
			}
		}
	}
	prevX, prevY := -1, -1
	for i, v := range values {
		x := spreadX(i, len(values), g.DotWidth())
		y := dotRow(v/top, g.DotHeight())
		if prevX < 0 {
			g.Set(x, y)
		} else {
			canvas.DrawLine(prevX, prevY, x, y, set)
		}
		prevX, prevY = x, y
	}
}

func curveMax(c Curve) float64 {
	if c.Max > 0 {
		return c.Max
	}
	top := 0.0
	for _, v := range c.Values {
		top = math.Max(top, v)
	}
	if top <= 0 {
		return 1
	}
	return top
}

// bucketMeans shrinks values to at most n points by averaging neighbours.
func bucketMeans(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		from := i * len(values) / n
		to := max((i+1)*len(values)/n, from+1)
		var sum float64
		for _, v := range values[from:to] {
			sum += v
		}
		out[i] = sum / float64(to-from)
	}
	return out
}

func spreadX(i, n, width int) int {
	if n <= 1 {
		return width / 2
	}
	return int(math.Round(float64(i) * float64(width-1) / float64(n-1)))
}

// dotRow maps a fraction in [0, 1] to a dot row, 1 at the top.
func dotRow(frac float64, height int) int {
	frac = math.Max(0, math.Min(1, frac))
	return int(math.Round((1 - frac) * float64(height-1)))
}

// rowLabels marks the top, bottom, and guide rows with their score.
func rowLabels(rows int) []string {
	labels := make([]string, rows)
	for y := range labels {
		labels[y] = axisLabel(0, false)
	}
	mark := func(v float64) {
		y := dotRow(v/scoreScale, rows*4) / 4
		labels[y] = axisLabel(v, true)
	}
	for _, v := range scoreGuides {
		mark(v)
	}
	mark(scoreScale)
	mark(0)
	return labels
}

func axisLabel(v float64, shown bool) string {
	if !shown {
		return "    │"
	}
	return fmt.Sprintf("%3.0f ┤", v)
}

func legend(curves []Curve, color bool) string {
	parts := make([]string, 0, len(curves))
	for i, c := range curves {
		style := "solid"
		if i%2 == 1 {
			style = "dotted"
		}
		label := fmt.Sprintf("%s (%s, 0-%.0f%s)", c.Name, style, curveMax(c), c.Unit)
		if color {
			label = layerColor(i, len(curves)) + label + ansiReset
		}
		parts = append(parts, label)
	}
	guides := fmt.Sprintf("guides at %.0f and %.0f", scoreGuides[0], scoreGuides[1])
	return strings.Join(parts, "  ") + "  " + guides
}

func layerColor(layer, curves int) string {
	if layer >= curves {
		return guideColor
	}
	return curveColors[layer%len(curveColors)]
}

func terminalCols() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackCols
	}
	return width
}

func useColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
