// Package tui shows a running scenario in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/jetsim/internal/scenario"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	canvasWidth  = 60
	canvasHeight = 20
	plotWidth    = 50
	plotHeight   = 5
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Monitor is a bubbletea model that steps a run one frame per tick until
// it reaches its frame budget.
type Monitor struct {
	run    *scenario.Run
	frames int
	canvas *Canvas

	paused  bool
	done    bool
	err     error
	started time.Time
	elapsed time.Duration
}

func NewMonitor(run *scenario.Run, frames int) *Monitor {
	return &Monitor{
		run:    run,
		frames: frames,
		canvas: NewCanvas(canvasWidth, canvasHeight),
	}
}

// Err is the error that stopped the run, if any.
func (m *Monitor) Err() error { return m.err }

func (m *Monitor) Done() bool { return m.done }

func (m *Monitor) Init() tea.Cmd {
	m.started = time.Now()
	return tick()
}

func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space", "p":
			m.paused = !m.paused
		}
		return m, nil
	case tickMsg:
		if m.done || m.paused {
			return m, tick()
		}
		m.step()
		return m, tick()
	}
	return m, nil
}

func (m *Monitor) step() {
	if int(m.run.Frame().Index) >= m.frames {
		m.done = true
		return
	}
	if err := m.run.Step(); err != nil {
		m.err = err
		m.done = true
		return
	}
	m.elapsed = time.Since(m.started)
	m.canvas.Plot(m.run.ProjectedPositions(), m.run.Domain())
	if int(m.run.Frame().Index) >= m.frames {
		m.done = true
	}
}

func (m *Monitor) View() string {
	var b strings.Builder
	cfg := m.run.Config

	b.WriteString(cyan.Render(fmt.Sprintf("  %s", m.run.Name)))
	b.WriteString(dim.Render(fmt.Sprintf("  %dD  spacing %.3g  searcher %s\n",
		cfg.Dimension, cfg.Solver.TargetSpacing, searcherName(cfg.Searcher))))
	b.WriteString(m.canvas.String())

	rec := m.run.Recorder
	values := rec.Values()
	fmt.Fprintf(&b, "  %s %s   %s %s   %s %s   %s %s\n",
		dim.Render("frame"), white.Render(fmt.Sprintf("%d/%d", m.run.Frame().Index, m.frames)),
		dim.Render("t"), white.Render(fmt.Sprintf("%.3fs", m.run.Solver.CurrentTimeInSeconds())),
		dim.Render("particles"), white.Render(fmt.Sprintf("%d", m.run.NumberOfParticles())),
		dim.Render("ρmax/ρ0"), white.Render(fmt.Sprintf("%.3f", values["max_density_ratio"])))

	if energy := rec.History("kinetic_energy"); len(energy) > 1 {
		b.WriteString(asciigraph.Plot(tail(energy, plotWidth),
			asciigraph.Height(plotHeight), asciigraph.Width(plotWidth), asciigraph.Caption("kinetic energy")))
		b.WriteByte('\n')
	}

	switch {
	case m.err != nil:
		b.WriteString(red.Render("  error: "+m.err.Error()) + "\n")
	case m.done:
		b.WriteString(green.Render(fmt.Sprintf("  done in %s", m.elapsed.Round(time.Millisecond))) + "\n")
	case m.paused:
		b.WriteString(yellow.Render("  paused") + "\n")
	}
	b.WriteString(dim.Render("  space pause  q quit") + "\n")
	return b.String()
}

func searcherName(name string) string {
	if name == "" {
		return "default"
	}
	return name
}

func tail(xs []float64, n int) []float64 {
	if len(xs) > n {
		return xs[len(xs)-n:]
	}
	return xs
}

// Watch runs m full screen until the user quits.
func Watch(m *Monitor) error {
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return m.Err()
}
