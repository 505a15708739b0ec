package export

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Trace is one named series to draw against a shared x axis.
type Trace struct {
	Label  string
	Values []float64
	Color  string
}

// DefaultColors cycles through traces that leave Color empty.
var DefaultColors = []string{"#00ff87", "#ff5f87", "#5fafff", "#ffd75f"}

type bounds struct {
	minX, maxX, minY, maxY float64
}

// pad widens b by 10% on every side and avoids zero ranges.
func (b bounds) pad() bounds {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX: b.minX - rangeX*0.1,
		maxX: b.maxX + rangeX*0.1,
		minY: b.minY - rangeY*0.1,
		maxY: b.maxY + rangeY*0.1,
	}
}

// SeriesToSVG plots traces against x as polylines. Traces shorter than x
// are drawn over their own length. It returns "" when there is nothing to
// draw.
func SeriesToSVG(title string, x []float64, traces []Trace, width, height int) string {
	if len(x) < 2 || len(traces) == 0 {
		return ""
	}

	b := bounds{minX: floats.Min(x), maxX: floats.Max(x)}
	first := true
	for _, tr := range traces {
		n := min(len(tr.Values), len(x))
		if n < 2 {
			continue
		}
		lo, hi := floats.Min(tr.Values[:n]), floats.Max(tr.Values[:n])
		if first || lo < b.minY {
			b.minY = lo
		}
		if first || hi > b.maxY {
			b.maxY = hi
		}
		first = false
	}
	if first {
		return ""
	}
	b = b.pad()
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#d0d0d0" font-family="monospace" font-size="12">%s</text>
`, escape(title)))
	}

	// zero line
	if b.minY < 0 && b.maxY > 0 {
		y0 := float64(height) - (0-b.minY)/rangeY*float64(height)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444444" stroke-dasharray="4,4"/>
`, y0, width, y0))
	}

	for i, tr := range traces {
		n := min(len(tr.Values), len(x))
		if n < 2 {
			continue
		}
		color := tr.Color
		if color == "" {
			color = DefaultColors[i%len(DefaultColors)]
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for k := 0; k < n; k++ {
			px := (x[k] - b.minX) / rangeX * float64(width)
			py := float64(height) - (tr.Values[k]-b.minY)/rangeY*float64(height)

			if k == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
			}
		}
		sb.WriteString(`"/>
`)

		if tr.Label != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="11" text-anchor="end">%s</text>
`, width-8, 16+14*i, color, escape(tr.Label)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
