package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks s into lines no wider than width display cells, preferring spaces.
// Words wider than a line are split at the cell limit.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var out []string
	line := make([]rune, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1

	for _, r := range strings.TrimSpace(s) {
		w := runewidth.RuneWidth(r)
		if lineWidth+w > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out = append(out, string(line[:lastSpaceIdx]))
				line = append([]rune{}, line[lastSpaceIdx+1:]...)
			} else {
				out = append(out, string(line))
				line = line[:0]
			}
			lineWidth = runewidth.StringWidth(string(line))
			lastSpaceIdx = lastSpaceIndex(line)
			if r == ' ' && len(line) == 0 {
				continue
			}
		}
		line = append(line, r)
		lineWidth += w
		if r == ' ' {
			lastSpaceIdx = len(line) - 1
		}
	}
	if len(line) > 0 || len(out) == 0 {
		out = append(out, string(line))
	}
	return out
}

func lastSpaceIndex(line []rune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == ' ' {
			return i
		}
	}
	return -1
}

// wrapAll wraps each paragraph and keeps at most maxLines lines.
func wrapAll(paragraphs []string, width, maxLines int) []string {
	var out []string
	for _, p := range paragraphs {
		out = append(out, wrapText(p, width)...)
	}
	if maxLines > 0 && len(out) > maxLines {
		out = out[:maxLines]
	}
	return out
}
