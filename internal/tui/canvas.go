package tui

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// shades maps how many particles share a cell to a glyph.
var shades = []rune{' ', '.', 'o', 'O', '@'}

// Canvas is a character grid particles are splatted onto. Row 0 is the
// top of the domain.
type Canvas struct {
	width  int
	height int
	counts [][]int
}

func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 1), max(height, 1)
	counts := make([][]int, height)
	for i := range counts {
		counts[i] = make([]int, width)
	}
	return &Canvas{width: width, height: height, counts: counts}
}

func (c *Canvas) clear() {
	for y := range c.counts {
		clear(c.counts[y])
	}
}

func (c *Canvas) add(x, y int) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.counts[y][x]++
	}
}

// Plot replaces the canvas contents with points scaled from domain.
// Points outside the domain are dropped.
func (c *Canvas) Plot(points []r2.Vec, domain r2.Box) {
	c.clear()
	size := r2.Sub(domain.Max, domain.Min)
	if !(size.X > 0) || !(size.Y > 0) {
		return
	}
	for _, p := range points {
		u := (p.X - domain.Min.X) / size.X
		v := (p.Y - domain.Min.Y) / size.Y
		if u < 0 || u > 1 || v < 0 || v > 1 {
			continue
		}
		x := min(int(u*float64(c.width)), c.width-1)
		y := c.height - 1 - min(int(v*float64(c.height)), c.height-1)
		c.add(x, y)
	}
}

func (c *Canvas) At(x, y int) rune {
	return shades[min(c.counts[y][x], len(shades)-1)]
}

func (c *Canvas) String() string {
	var b strings.Builder
	border := "+" + strings.Repeat("-", c.width) + "+\n"
	b.WriteString(border)
	for y := 0; y < c.height; y++ {
		b.WriteByte('|')
		for x := 0; x < c.width; x++ {
			b.WriteRune(c.At(x, y))
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}
