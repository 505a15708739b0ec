package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Downsample picks at most n evenly spaced points of values, always
// keeping the last one.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	if n == 1 {
		return values[len(values)-1:]
	}
	out := make([]float64, n)
	step := float64(len(values)-1) / float64(n-1)
	for i := range out {
		out[i] = values[int(float64(i)*step+0.5)]
	}
	return out
}

// Plot draws values as an ASCII line chart. Empty input draws nothing.
func Plot(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(Downsample(values, width*2),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several equally long series, one color each.
func PlotMany(series [][]float64, caption string, width, height int) string {
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s) > 0 {
			data = append(data, Downsample(s, width*2))
		}
	}
	if len(data) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Red, asciigraph.Blue, asciigraph.Yellow}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors[:min(len(data), len(colors))]...),
	)
}
