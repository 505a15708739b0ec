package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/sim"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(26)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ProgressBar renders a bar filled to percent (0..1) of width cells.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// SparklineChart renders values as one row of block characters, sampled
// down to width.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}

	return result.String()
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}

func row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

func hypothesesLabel(p config.Params) string {
	var on []string
	if p.H1.Enabled {
		on = append(on, "H1")
	}
	if p.H2.Enabled {
		on = append(on, "H2")
	}
	if p.H3.Enabled {
		on = append(on, "H3")
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, " + ")
}

// Summary renders the headline figures of one run as a bordered panel.
func Summary(name string, p config.Params, r *sim.CycleResult) string {
	var s strings.Builder

	s.WriteString(HeaderStyle.Render(strings.ToUpper(name)) + "\n")
	s.WriteString(row("Hypotheses", hypothesesLabel(p)))
	s.WriteString(row("Speed mode", p.Simulation.SpeedMode))
	s.WriteString(row("Period / steps", fmt.Sprintf("%.2f s / %d", r.Period, r.Steps)))
	s.WriteString(row("Injections", fmt.Sprintf("%d", len(r.Injections))))
	s.WriteString(Separator(44) + "\n")

	s.WriteString(row("Energy in (compressor)", fmt.Sprintf("%.1f kJ", r.EnergyIn/1000)))
	s.WriteString(row("Mechanical energy", fmt.Sprintf("%.1f kJ", r.MechanicalEnergy/1000)))
	s.WriteString(row("Energy out (electrical)", fmt.Sprintf("%.1f kJ", r.EnergyOut/1000)))
	s.WriteString(row("Mean electrical power", fmt.Sprintf("%.2f kW", r.MeanElectricalPower()/1000)))

	eff := fmt.Sprintf("%.1f%% ", r.Efficiency*100)
	if r.Efficiency > 1 {
		eff += SparkLow.Render("over-unity (model artifact)")
	} else {
		eff += ProgressBar(r.Efficiency, 20)
	}
	s.WriteString(MetricLabel.Render("Efficiency") + MetricValue.Render(eff) + "\n")

	if r.Stalled {
		s.WriteString(row("Chain", SparkLow.Render("stalled")))
	}
	s.WriteString(Separator(44) + "\n")

	for _, h := range []struct {
		name string
		c    sim.Contribution
	}{{"H1 nanobubble", r.Hypotheses.H1}, {"H2 isothermal", r.Hypotheses.H2}, {"H3 pulse", r.Hypotheses.H3}} {
		s.WriteString(row(h.name, fmt.Sprintf("%+.1f N  %+.1f kJ", h.c.MeanForce, h.c.Energy/1000)))
	}
	if r.WaterHeatLoss > 0 {
		s.WriteString(row("Heat drawn from water", fmt.Sprintf("%.1f kJ (%.4f K)", r.WaterHeatLoss/1000, r.WaterTemperatureDrop)))
	}

	if len(r.Metrics) > 0 {
		s.WriteString(Separator(44) + "\n")
		names := make([]string, 0, len(r.Metrics))
		for k := range r.Metrics {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			s.WriteString(row(k, fmt.Sprintf("%.4g", r.Metrics[k])))
		}
	}

	s.WriteString("\n" + Subtle.Render("torque ") + SparklineChart(r.Series.NetTorque, 40))

	return Panel.Render(s.String())
}

// Compare renders one table row per run.
func Compare(names []string, results []*sim.CycleResult) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers("RUN", "EFFICIENCY", "E_OUT kJ", "E_IN kJ", "P_MEAN kW", "H1 N", "H2 N", "H3 N").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for i, r := range results {
		t.Row(
			names[i],
			fmt.Sprintf("%.2f%%", r.Efficiency*100),
			fmt.Sprintf("%.1f", r.EnergyOut/1000),
			fmt.Sprintf("%.1f", r.EnergyIn/1000),
			fmt.Sprintf("%.2f", r.MeanElectricalPower()/1000),
			fmt.Sprintf("%+.1f", r.Hypotheses.H1.MeanForce),
			fmt.Sprintf("%+.1f", r.Hypotheses.H2.MeanForce),
			fmt.Sprintf("%+.1f", r.Hypotheses.H3.MeanForce),
		)
	}
	return t.Render()
}
