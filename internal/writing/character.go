package writing

import (
	"errors"
	"fmt"
	"sort"
)

// Direction classifies the overall shape of a stroke.
type Direction string

const (
	DirectionHorizontal Direction = "horizontal"
	DirectionVertical   Direction = "vertical"
	DirectionDiagonal   Direction = "diagonal"
	DirectionCurve      Direction = "curve"
	DirectionHook       Direction = "hook"
	DirectionDot        Direction = "dot"
)

// Validation errors for reference character data.
var (
	ErrUnknownDirection    = errors.New("unknown stroke direction")
	ErrStrokeCountMismatch = errors.New("stroke count does not match stroke list")
	ErrStrokeOrderGap      = errors.New("stroke orders must run 1..N without gaps")
	ErrChordDirection      = errors.New("stroke direction incompatible with its start and end points")
	ErrEmptyCharacter      = errors.New("character glyph is empty")
)

// ParseDirection converts a string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionHorizontal, DirectionVertical, DirectionDiagonal, DirectionCurve, DirectionHook, DirectionDot:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// CharacterStroke is one reference stroke of a character.
type CharacterStroke struct {
	ID         string    `toml:"id"`
	Order      int       `toml:"order"`
	Name       string    `toml:"name"`
	Direction  Direction `toml:"direction"`
	StartPoint Point     `toml:"start"`
	EndPoint   Point     `toml:"end"`
}

// WritingCharacter is the reference definition of a character and its stroke order.
type WritingCharacter struct {
	ID          string            `toml:"id"`
	Character   string            `toml:"character"`
	Pinyin      string            `toml:"pinyin"`
	Meaning     string            `toml:"meaning"`
	HanViet     string            `toml:"han-viet"`
	HSKLevel    int               `toml:"hsk"`
	StrokeCount int               `toml:"stroke-count"`
	Strokes     []CharacterStroke `toml:"strokes"`
}

// OrderedStrokes returns the strokes sorted by Order without modifying the receiver.
func (c WritingCharacter) OrderedStrokes() []CharacterStroke {
	out := make([]CharacterStroke, len(c.Strokes))
	copy(out, c.Strokes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Validate checks the character against the default scoring parameters.
func (c WritingCharacter) Validate() error {
	return c.ValidateWith(DefaultParams())
}

// ValidateWith checks stroke count, stroke ordering, and that every stroke's direction
// accepts the classification of its own start-to-end chord under p.
func (c WritingCharacter) ValidateWith(p Params) error {
	if c.Character == "" {
		return ErrEmptyCharacter
	}
	if c.StrokeCount != len(c.Strokes) {
		return fmt.Errorf("%s: %w (stroke-count %d, strokes %d)", c.Character, ErrStrokeCountMismatch, c.StrokeCount, len(c.Strokes))
	}
	for i, s := range c.OrderedStrokes() {
		if s.Order != i+1 {
			return fmt.Errorf("%s: %w (position %d has order %d)", c.Character, ErrStrokeOrderGap, i+1, s.Order)
		}
		if _, err := ParseDirection(string(s.Direction)); err != nil {
			return fmt.Errorf("%s stroke %d: %w", c.Character, s.Order, err)
		}
		chord := p.ClassifyDirection([]Point{s.StartPoint, s.EndPoint})
		if !Compatible(s.Direction, chord) {
			return fmt.Errorf("%s stroke %d: %w (%s drawn as %s)", c.Character, s.Order, ErrChordDirection, s.Direction, chord)
		}
	}
	return nil
}
