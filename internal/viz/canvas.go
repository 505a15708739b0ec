package viz

import "strings"

// blank is the empty Braille cell. Each cell holds 2×4 dots, numbered
//
//	1 4
//	2 5
//	3 6
//	7 8
const blank = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Width×Height grid of Braille cells used to draw the floater
// column. Coordinates are in dots, origin top left.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y). Dots off the canvas are dropped, so
// floaters near the ends of the column may be drawn partially.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return
	}
	c.Grid[y/4][x/2] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = blank
		}
	}
}

// VLine draws a vertical run of dots, e.g. a chain lane.
func (c *Canvas) VLine(x, y0, y1 int) {
	y0, y1 = order(y0, y1)
	for y := y0; y <= y1; y++ {
		c.Set(x, y)
	}
}

func (c *Canvas) HLine(y, x0, x1 int) {
	x0, x1 = order(x0, x1)
	for x := x0; x <= x1; x++ {
		c.Set(x, y)
	}
}

// Rect outlines a box: a water-filled floater.
func (c *Canvas) Rect(x0, y0, x1, y1 int) {
	c.HLine(y0, x0, x1)
	c.HLine(y1, x0, x1)
	c.VLine(x0, y0, y1)
	c.VLine(x1, y0, y1)
}

// Fill sets every dot of a box: an air-filled floater.
func (c *Canvas) Fill(x0, y0, x1, y1 int) {
	y0, y1 = order(y0, y1)
	for y := y0; y <= y1; y++ {
		c.HLine(y, x0, x1)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
