package writing

// AnimationPhase is the stroke-order playback state.
type AnimationPhase int

const (
	AnimationIdle AnimationPhase = iota
	AnimationPlaying
	AnimationDone
)

// Animation plays a character's strokes one after another, advanced by Tick from the
// host render loop.
type Animation struct {
	strokes         int
	framesPerStroke int
	phase           AnimationPhase
	stroke          int
	frame           int
}

// NewAnimation returns an idle animation over strokeCount strokes.
func NewAnimation(strokeCount, framesPerStroke int) *Animation {
	if framesPerStroke < 1 {
		framesPerStroke = 1
	}
	return &Animation{strokes: strokeCount, framesPerStroke: framesPerStroke}
}

// Phase returns the current phase.
func (a *Animation) Phase() AnimationPhase {
	return a.phase
}

// Start begins playback from the first stroke. A character without strokes is done at once.
func (a *Animation) Start() {
	a.stroke = 0
	a.frame = 0
	if a.strokes == 0 {
		a.phase = AnimationDone
		return
	}
	a.phase = AnimationPlaying
}

// Stop returns to idle.
func (a *Animation) Stop() {
	a.phase = AnimationIdle
	a.stroke = 0
	a.frame = 0
}

// Tick advances one frame and reports whether playback is still running.
func (a *Animation) Tick() bool {
	if a.phase != AnimationPlaying {
		return false
	}
	a.frame++
	if a.frame >= a.framesPerStroke {
		a.frame = 0
		a.stroke++
		if a.stroke >= a.strokes {
			a.phase = AnimationDone
			return false
		}
	}
	return true
}

// Progress returns the index of the stroke being drawn and how much of it is visible (0-1).
// Strokes before the index are fully drawn. When done, index equals the stroke count.
func (a *Animation) Progress() (int, float64) {
	switch a.phase {
	case AnimationPlaying:
		return a.stroke, float64(a.frame+1) / float64(a.framesPerStroke)
	case AnimationDone:
		return a.strokes, 0
	default:
		return 0, 0
	}
}

// Lerp returns the point a fraction t along the segment a-b.
func Lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
