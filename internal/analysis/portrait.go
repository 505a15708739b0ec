package analysis

import (
	"strings"
)

// Portrait is a set of (x, y) points for a 2D scatter view.
type Portrait struct {
	XLabel, YLabel string
	Points         []struct{ X, Y float64 }
}

// NewPortrait pairs xs and ys sample by sample, keeping every stride-th
// point. Extra samples in the longer series are ignored.
func NewPortrait(xLabel string, xs []float64, yLabel string, ys []float64, stride int) *Portrait {
	if stride < 1 {
		stride = 1
	}
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}

	p := &Portrait{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]struct{ X, Y float64 }, 0, n/stride+1),
	}
	for i := 0; i < n; i += stride {
		p.Points = append(p.Points, struct{ X, Y float64 }{xs[i], ys[i]})
	}
	return p
}

// ToASCII renders the portrait on a width×height character grid
func (p *Portrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Zero axes first so points draw over them.
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	sb.WriteString(p.YLabel)
	sb.WriteRune('\n')
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	sb.WriteString(strings.Repeat(" ", max(0, width-len(p.XLabel))))
	sb.WriteString(p.XLabel)
	sb.WriteRune('\n')
	return sb.String()
}
