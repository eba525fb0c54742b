// Package canvas rasterizes lines onto a braille dot grid for terminal output.
//
// Each terminal cell holds a 2x4 block of dots, so a grid of cols x rows cells addresses
// cols*2 x rows*4 dots with the origin at the top-left.
package canvas

import "math"

// Grid is a braille dot raster.
type Grid struct {
	cells [][]uint8
}

// NewGrid allocates a grid of cols x rows terminal cells.
func NewGrid(cols, rows int) *Grid {
	cols = max(cols, 0)
	rows = max(rows, 0)
	cells := make([][]uint8, rows)
	for y := range cells {
		cells[y] = make([]uint8, cols)
	}
	return &Grid{cells: cells}
}

// Cols returns the width in cells.
func (g *Grid) Cols() int {
	if len(g.cells) == 0 {
		return 0
	}
	return len(g.cells[0])
}

// Rows returns the height in cells.
func (g *Grid) Rows() int {
	return len(g.cells)
}

// DotWidth returns the width in dots.
func (g *Grid) DotWidth() int {
	return g.Cols() * 2
}

// DotHeight returns the height in dots.
func (g *Grid) DotHeight() int {
	return g.Rows() * 4
}

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (g *Grid) Set(x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(g.cells) || cellX >= len(g.cells[cellY]) {
		return
	}
	g.cells[cellY][cellX] |= dotMask(x%2, y%4)
}

// Line sets every dot on the segment from (x0, y0) to (x1, y1).
func (g *Grid) Line(x0, y0, x1, y1 int) {
	DrawLine(x0, y0, x1, y1, g.Set)
}

// Mask returns the dot mask of the cell at column x, row y.
func (g *Grid) Mask(x, y int) uint8 {
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return 0
	}
	return g.cells[y][x]
}

// Clear turns off every dot.
func (g *Grid) Clear() {
	for y := range g.cells {
		clear(g.cells[y])
	}
}

// Lines renders the grid as one string per cell row.
func (g *Grid) Lines() []string {
	out := make([]string, len(g.cells))
	for y, row := range g.cells {
		runes := make([]rune, len(row))
		for x, mask := range row {
			runes[x] = Braille(mask)
		}
		out[y] = string(runes)
	}
	return out
}

// Compose merges the cell at (x, y) across layers. It returns the combined mask and the
// index of the first layer with any dot set, or -1 when the cell is empty.
func Compose(layers []*Grid, x, y int) (uint8, int) {
	var mask uint8
	layer := -1
	for i, g := range layers {
		m := g.Mask(x, y)
		if m == 0 {
			continue
		}
		if layer == -1 {
			layer = i
		}
		mask |= m
	}
	return mask, layer
}

// DrawLine walks the integer points of a segment with Bresenham's algorithm.
func DrawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func dotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

// Braille returns the braille pattern rune for a dot mask.
func Braille(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
