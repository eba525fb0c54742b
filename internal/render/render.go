// Package render draws characters and stroke attempts to PNG images.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"github.com/verte-zerg/bihua/internal/writing"
)

// Colours of the drawing layers.
const (
	GuideColor     = "#D9A3A3"
	ReferenceColor = "#C8C8C8"
	StartDotColor  = "#9A9A9A"
	GoodColor      = "#52C41A"
	FairColor      = "#C89A3A"
	PoorColor      = "#FF4D4F"
	UnscoredColor  = "#202020"
)

// ErrInvalidSize reports a non-positive image size.
var ErrInvalidSize = errors.New("image size must be > 0")

// Options controls what Render draws.
type Options struct {
	// Size is the side of the square image in pixels. Zero means the canvas size.
	Size int
	// Reference draws the character's reference strokes under the attempt.
	Reference bool
	// Scores colours user stroke i by Scores[i]; strokes without a score use UnscoredColor.
	Scores []int
	// LineWidth is the user stroke width in canvas units. Zero means 8.
	LineWidth float64
}

// Render draws a 米 guide grid, the optional reference strokes, and the user strokes, then
// encodes the image as PNG to w.
func Render(w io.Writer, char writing.WritingCharacter, strokes []writing.StrokePath, opts Options) (err error) {
	size := opts.Size
	if size == 0 {
		size = int(writing.CanvasSize)
	}
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	lineWidth := opts.LineWidth
	if lineWidth <= 0 {
		lineWidth = 8
	}

	dc := gg.NewContext(size, size)
	defer func() {
		if cerr := dc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to release drawing context: %w", cerr)
		}
	}()
	p := painter{dc: dc, scale: float64(size) / writing.CanvasSize}

	dc.ClearWithColor(gg.White)
	if err := p.guide(); err != nil {
		return err
	}
	if opts.Reference {
		if err := p.reference(char.OrderedStrokes(), lineWidth+2); err != nil {
			return err
		}
	}
	for i, s := range strokes {
		color := UnscoredColor
		if i < len(opts.Scores) {
			color = ScoreColor(opts.Scores[i])
		}
		if err := p.polyline(s.Points, color, lineWidth); err != nil {
			return err
		}
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// ScoreColor picks the stroke colour for a 0-100 score.
func ScoreColor(score int) string {
	switch {
	case score >= writing.VeryGoodScore:
		return GoodColor
	case score >= writing.PassScore:
		return FairColor
	default:
		return PoorColor
	}
}

type painter struct {
	dc    *gg.Context
	scale float64
}

func (p painter) xy(pt writing.Point) (float64, float64) {
	return pt.X * p.scale, pt.Y * p.scale
}

func (p painter) guide() error {
	dc := p.dc
	s := writing.CanvasSize * p.scale
	dc.SetHexColor(GuideColor)
	dc.SetLineWidth(2)
	dc.ClearDash()
	dc.DrawRectangle(1, 1, s-2, s-2)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw guide frame: %w", err)
	}

	dc.SetLineWidth(1)
	dc.SetDash(6*p.scale, 4*p.scale)
	dc.DrawLine(s/2, 0, s/2, s)
	dc.DrawLine(0, s/2, s, s/2)
	dc.DrawLine(0, 0, s, s)
	dc.DrawLine(s, 0, 0, s)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw guide lines: %w", err)
	}
	dc.ClearDash()
	return nil
}

// reference draws each stroke as its start-end chord with a dot marking where it begins.
func (p painter) reference(strokes []writing.CharacterStroke, width float64) error {
	dc := p.dc
	dc.SetHexColor(ReferenceColor)
	dc.SetLineWidth(width * p.scale)
	dc.SetLineCap(gg.LineCapRound)
	for _, s := range strokes {
		x0, y0 := p.xy(s.StartPoint)
		x1, y1 := p.xy(s.EndPoint)
		dc.DrawLine(x0, y0, x1, y1)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("failed to draw reference stroke %d: %w", s.Order, err)
		}
	}
	dc.SetHexColor(StartDotColor)
	for _, s := range strokes {
		x, y := p.xy(s.StartPoint)
		dc.DrawCircle(x, y, width*0.4*p.scale)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to mark stroke %d: %w", s.Order, err)
		}
	}
	return nil
}

func (p painter) polyline(points []writing.Point, color string, width float64) error {
	if len(points) == 0 {
		return nil
	}
	dc := p.dc
	dc.SetHexColor(color)
	if len(points) == 1 {
		x, y := p.xy(points[0])
		dc.DrawCircle(x, y, width/2*p.scale)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to draw dot: %w", err)
		}
		return nil
	}
	dc.SetLineWidth(width * p.scale)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	x, y := p.xy(points[0])
	dc.MoveTo(x, y)
	for _, pt := range points[1:] {
		x, y = p.xy(pt)
		dc.LineTo(x, y)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw stroke: %w", err)
	}
	return nil
}
