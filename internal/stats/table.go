package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column is a text table column; numeric columns align right.
type column struct {
	title string
	right bool
}

var progressColumns = []column{
	{title: "Char"},
	{title: "Pinyin"},
	{title: "Hán Việt"},
	{title: "Mastery"},
	{title: "Attempts", right: true},
	{title: "Best", right: true},
	{title: "Avg", right: true},
	{title: "Fastest", right: true},
	{title: "Streak", right: true},
	{title: "Last"},
}

// layoutTable pads cells to the widest display width in each column. Glyph columns are
// measured with runewidth so Han characters count as two cells.
func layoutTable(cols []column, rows [][]string) []string {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	out := make([]string, 0, len(rows)+1)
	out = append(out, joinCells(cols, widths, titles))
	for _, row := range rows {
		out = append(out, joinCells(cols, widths, row))
	}
	return out
}

func joinCells(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		if c.right {
			cells[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}
