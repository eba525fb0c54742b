package writing

import (
	"fmt"
	"time"
)

func samplePerson() WritingCharacter {
	return WritingCharacter{
		ID:          "人",
		Character:   "人",
		Pinyin:      "rén",
		Meaning:     "người",
		StrokeCount: 2,
		Strokes: []CharacterStroke{
			{ID: "ren-1", Order: 1, Direction: DirectionDiagonal, StartPoint: Point{X: 100, Y: 50}, EndPoint: Point{X: 150, Y: 120}},
			{ID: "ren-2", Order: 2, Direction: DirectionDiagonal, StartPoint: Point{X: 200, Y: 50}, EndPoint: Point{X: 150, Y: 120}},
		},
	}
}

func sampleBig() WritingCharacter {
	return WritingCharacter{
		ID:          "大",
		Character:   "大",
		Pinyin:      "dà",
		Meaning:     "lớn",
		StrokeCount: 3,
		Strokes: []CharacterStroke{
			{ID: "da-1", Order: 1, Direction: DirectionHorizontal, StartPoint: Point{X: 60, Y: 110}, EndPoint: Point{X: 240, Y: 110}},
			{ID: "da-2", Order: 2, Direction: DirectionCurve, StartPoint: Point{X: 150, Y: 40}, EndPoint: Point{X: 40, Y: 240}},
			{ID: "da-3", Order: 3, Direction: DirectionDiagonal, StartPoint: Point{X: 155, Y: 130}, EndPoint: Point{X: 250, Y: 250}},
		},
	}
}

func sampleRepo() *MemoryRepository {
	return NewMemoryRepository(samplePerson(), sampleBig())
}

// chordStrokes traces every reference stroke as a straight two-point line.
func chordStrokes(c WritingCharacter) []StrokePath {
	out := make([]StrokePath, 0, len(c.Strokes))
	for i, s := range c.OrderedStrokes() {
		out = append(out, NewStrokePath(fmt.Sprintf("u%d", i), i, []Point{s.StartPoint, s.EndPoint}, time.Unix(0, 0)))
	}
	return out
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
}
