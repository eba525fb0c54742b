package writing

import (
	"time"

	"github.com/google/uuid"
)

// Capture turns pointer gestures into finalized strokes. A stroke exists only after
// Up; Cancel drops the stroke in progress.
type Capture struct {
	// MinSpacing drops move samples closer than this to the last kept point.
	// The gesture's final position is always kept.
	MinSpacing float64

	now     func() time.Time
	newID   func() string
	active  bool
	points  []Point
	pending *Point
	next    int
}

// CaptureOption customizes a Capture.
type CaptureOption func(*Capture)

// WithCaptureClock overrides the time stamped on finalized strokes.
func WithCaptureClock(now func() time.Time) CaptureOption {
	return func(c *Capture) { c.now = now }
}

// WithStrokeIDs overrides the stroke ID source.
func WithStrokeIDs(newID func() string) CaptureOption {
	return func(c *Capture) { c.newID = newID }
}

// NewCapture returns a Capture that keeps samples at least minSpacing apart. Strokes get
// wall-clock timestamps and random UUIDs by default.
func NewCapture(minSpacing float64, opts ...CaptureOption) *Capture {
	c := &Capture{
		MinSpacing: minSpacing,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active reports whether a gesture is in progress.
func (c *Capture) Active() bool {
	return c.active
}

// Points returns a copy of the in-progress points, for live rendering.
func (c *Capture) Points() []Point {
	out := append([]Point(nil), c.points...)
	if c.pending != nil {
		out = append(out, *c.pending)
	}
	return out
}

// Down begins a gesture. A Down during an active gesture restarts it.
func (c *Capture) Down(p Point) {
	c.active = true
	c.points = []Point{p}
	c.pending = nil
}

// Move adds a sample to the active gesture; it is ignored when no gesture is active.
func (c *Capture) Move(p Point) {
	if !c.active {
		return
	}
	last := c.points[len(c.points)-1]
	if p == last {
		return
	}
	if Distance(last, p) < c.MinSpacing {
		c.pending = &p
		return
	}
	c.points = append(c.points, p)
	c.pending = nil
}

// Up finalizes the gesture. It returns false when no gesture was active.
func (c *Capture) Up() (StrokePath, bool) {
	if !c.active {
		return StrokePath{}, false
	}
	if c.pending != nil && *c.pending != c.points[len(c.points)-1] {
		c.points = append(c.points, *c.pending)
	}
	stroke := NewStrokePath(c.newID(), c.next, c.points, c.now())
	c.next++
	c.active = false
	c.points = nil
	c.pending = nil
	return stroke, true
}

// Cancel discards the gesture in progress without emitting a stroke.
func (c *Capture) Cancel() {
	c.active = false
	c.points = nil
	c.pending = nil
}

// Reset cancels any gesture and restarts stroke ordering for a new attempt.
func (c *Capture) Reset() {
	c.Cancel()
	c.next = 0
}

// NextOrder returns the order the next finalized stroke will receive.
func (c *Capture) NextOrder() int {
	return c.next
}
