package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kppsim/internal/physics"
)

const (
	canvasWidth  = 24
	canvasHeight = 22
	torqueWindow = 120
	maxSpeed     = 16
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model replays recorded frames of a run: the column with its floaters
// on the left, live figures and the torque trace on the right.
type Model struct {
	name         string
	columnHeight float64
	frames       []Frame
	pos          int
	speed        int
	running      bool
	showHelp     bool
	theme        Theme
	canvas       *Canvas
}

func NewModel(name string, columnHeight float64, frames []Frame) Model {
	return Model{
		name:         name,
		columnHeight: columnHeight,
		frames:       frames,
		speed:        1,
		running:      len(frames) > 0,
		theme:        Themes[0],
		canvas:       NewCanvas(canvasWidth, canvasHeight),
	}
}

// WithTheme returns m drawn in the named theme.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

func (m Model) Theme() Theme { return m.theme }

func (m Model) Init() tea.Cmd { return tick() }

// Position returns the index of the frame on screen.
func (m Model) Position() int { return m.pos }

func (m Model) Running() bool { return m.running }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.pos = 0
			m.running = true
		case "[":
			m.scrub(-10)
		case "]":
			m.scrub(10)
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.scrub(m.speed)
			if m.pos == len(m.frames)-1 {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) scrub(n int) {
	if len(m.frames) == 0 {
		return
	}
	m.pos = min(max(m.pos+n, 0), len(m.frames)-1)
}

// drawColumn renders both lanes of the loop. Ascending floaters are solid,
// descending ones hollow; injecting and venting floaters sit at the ends of
// the ascending lane.
func (m *Model) drawColumn(f Frame) {
	c := m.canvas
	c.Clear()
	w, h := c.Dots()

	up, down := w/3, 2*w/3
	c.VLine(up, 0, h-1)
	c.VLine(down, 0, h-1)

	for i, state := range f.States {
		frac := 0.0
		if m.columnHeight > 0 {
			frac = f.Positions[i] / m.columnHeight
		}
		y := h - 3 - int(frac*float64(h-5))

		switch state {
		case physics.WaterFilledDescending:
			c.Rect(down-2, y-1, down+2, y+1)
		case physics.AirFilledAscending:
			c.Fill(up-2, y-1, up+2, y+1)
		case physics.Injecting, physics.WaterFilled:
			c.Fill(up-3, h-3, up+3, h-1)
		case physics.Venting:
			c.Rect(up-3, 0, up+3, 2)
		}
	}
}

func (m Model) stats(f Frame) string {
	label := lipgloss.NewStyle().Foreground(m.theme.Muted).Width(12)
	value := lipgloss.NewStyle().Foreground(m.theme.Secondary)

	var s strings.Builder
	head := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).MarginBottom(1)
	s.WriteString(head.Render(strings.ToUpper(m.name)) + "\n")

	status := "PLAYING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s  x%d  frame %d/%d\n\n", status, m.speed, m.pos+1, len(m.frames)))

	s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.2f s", f.Time)) + "\n")
	s.WriteString(label.Render("Torque") + value.Render(fmt.Sprintf("%.0f N·m", f.Torque)) + "\n")
	s.WriteString(label.Render("Power") + value.Render(fmt.Sprintf("%.2f kW", f.Power/1000)) + "\n")
	s.WriteString(label.Render("Speed") + value.Render(fmt.Sprintf("%.3f m/s", f.Speed)) + "\n")

	var counts [physics.WaterFilledDescending + 1]int
	for _, st := range f.States {
		if st.Valid() {
			counts[st]++
		}
	}
	s.WriteString(label.Render("Up / down") + value.Render(fmt.Sprintf("%d / %d", counts[physics.AirFilledAscending], counts[physics.WaterFilledDescending])) + "\n")
	inject := lipgloss.NewStyle().Foreground(m.theme.Injecting)
	s.WriteString(label.Render("Injecting") + inject.Render(fmt.Sprintf("%d", counts[physics.Injecting]+counts[physics.WaterFilled])) + "\n")
	s.WriteString(label.Render("Venting") + value.Render(fmt.Sprintf("%d", counts[physics.Venting])) + "\n")

	start := max(0, m.pos-torqueWindow)
	torque := make([]float64, 0, m.pos-start+1)
	for _, fr := range m.frames[start : m.pos+1] {
		torque = append(torque, fr.Torque)
	}
	if len(torque) > 1 {
		chart := asciigraph.Plot(torque, asciigraph.Height(5), asciigraph.Width(40), asciigraph.Caption("net torque"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Ascending).Render(chart) + "\n")
	}

	s.WriteString("\n" + KeyHint.Render("SP:Pause [ ]:Scrub +/-:Speed T:Theme ?:Help Q:Quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}

func (m Model) View() string {
	if len(m.frames) == 0 {
		return "no frames recorded\n"
	}
	f := m.frames[m.pos]
	m.drawColumn(f)

	column := lipgloss.NewStyle().
		Foreground(m.theme.Ascending).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Muted).
		Render(m.canvas.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, column, m.stats(f))

	if m.showHelp {
		help := Panel.Render(strings.Join([]string{
			"Space  pause / resume",
			"[ ]    rewind / forward 10 frames",
			"+ -    playback speed",
			"R      restart",
			"T      cycle theme",
			"Q      quit",
		}, "\n"))
		return help + "\n" + body
	}
	return body
}
