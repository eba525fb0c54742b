package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/bihua/internal/writing"
)

// BoardLevels lists mastery levels from strongest to weakest.
var BoardLevels = []writing.MasteryLevel{
	writing.MasteryMastered,
	writing.MasteryPracticing,
	writing.MasteryLearning,
}

// MasteryBoard groups glyphs by mastery level in catalogue order.
type MasteryBoard struct {
	Levels      map[writing.MasteryLevel][]string
	Unpractised []string
}

// Total returns the number of glyphs on the board.
func (b MasteryBoard) Total() int {
	n := len(b.Unpractised)
	for _, glyphs := range b.Levels {
		n += len(glyphs)
	}
	return n
}

// BuildMasteryBoard places every catalogue character on the board. Progress for
// characters outside the catalogue is appended to its level by ID.
func BuildMasteryBoard(all []writing.WritingCharacter, progress []writing.WritingProgress) MasteryBoard {
	byID := lo.KeyBy(progress, func(p writing.WritingProgress) string { return p.CharacterID })
	board := MasteryBoard{Levels: make(map[writing.MasteryLevel][]string, len(BoardLevels))}
	for _, c := range all {
		p, ok := byID[c.ID]
		if !ok {
			board.Unpractised = append(board.Unpractised, c.Character)
			continue
		}
		board.Levels[p.MasteryLevel] = append(board.Levels[p.MasteryLevel], c.Character)
		delete(byID, c.ID)
	}
	for _, p := range progress {
		if _, left := byID[p.CharacterID]; left {
			board.Levels[p.MasteryLevel] = append(board.Levels[p.MasteryLevel], p.CharacterID)
		}
	}
	return board
}

// RenderMasteryBoard prints one line per mastery level.
func RenderMasteryBoard(w io.Writer, board MasteryBoard) error {
	lines := []string{"Mastery"}
	for _, level := range BoardLevels {
		lines = append(lines, boardLine(string(level), board.Levels[level]))
	}
	lines = append(lines, boardLine("unpractised", board.Unpractised), "")
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func boardLine(label string, glyphs []string) string {
	list := "-"
	if len(glyphs) > 0 {
		list = strings.Join(glyphs, " ")
	}
	return fmt.Sprintf("%s (%d): %s", label, len(glyphs), list)
}
