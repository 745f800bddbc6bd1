package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/jetsim/internal/config"
	"github.com/san-kum/jetsim/internal/scenario"
)

func TestCanvasPlot(t *testing.T) {
	c := NewCanvas(10, 5)
	domain := r2.Box{Max: r2.Vec{X: 1, Y: 1}}
	c.Plot([]r2.Vec{
		{X: 0, Y: 0},
		{X: 0.01, Y: 0.01},
		{X: 1, Y: 1},
		{X: 2, Y: 0.5},
	}, domain)

	if got := c.At(0, 4); got != 'o' {
		t.Errorf("bottom left: expected 'o', got %q", got)
	}
	if got := c.At(9, 0); got != '.' {
		t.Errorf("top right: expected '.', got %q", got)
	}
	if got := c.At(5, 2); got != ' ' {
		t.Errorf("empty cell: expected ' ', got %q", got)
	}

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if len(l) != 12 {
			t.Errorf("expected line width 12, got %d: %q", len(l), l)
		}
	}
}

func TestCanvasSaturates(t *testing.T) {
	c := NewCanvas(1, 1)
	pts := make([]r2.Vec, 20)
	c.Plot(pts, r2.Box{Max: r2.Vec{X: 1, Y: 1}})
	if got := c.At(0, 0); got != '@' {
		t.Errorf("expected '@', got %q", got)
	}
	c.Plot(nil, r2.Box{Max: r2.Vec{X: 1, Y: 1}})
	if got := c.At(0, 0); got != ' ' {
		t.Errorf("expected plot to clear, got %q", got)
	}
}

func TestCanvasDegenerateDomain(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Plot([]r2.Vec{{}}, r2.Box{})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c.At(x, y) != ' ' {
				t.Fatalf("expected empty canvas")
			}
		}
	}
}

func newTestMonitor(t *testing.T, frames int) *Monitor {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Dimension = 2
	cfg.Solver.TargetSpacing = 0.1
	cfg.Emitter.Min = config.Vec{0.2, 0.2, 0.2}
	cfg.Emitter.Max = config.Vec{0.5, 0.5, 0.5}
	run, err := scenario.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewMonitor(run, frames)
}

func TestMonitorStepsToBudget(t *testing.T) {
	m := newTestMonitor(t, 3)
	m.Init()
	for i := 0; i < 10; i++ {
		m.Update(tickMsg(time.Now()))
	}
	if !m.Done() {
		t.Fatal("expected monitor to finish")
	}
	if m.Err() != nil {
		t.Fatal(m.Err())
	}
	if got := m.run.Frame().Index; got != 3 {
		t.Errorf("expected 3 frames, got %d", got)
	}
	view := m.View()
	for _, want := range []string{"block", "3/3", "kinetic energy", "done"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestMonitorPause(t *testing.T) {
	m := newTestMonitor(t, 5)
	m.Init()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m.Update(tickMsg(time.Now()))
	if got := m.run.Frame().Index; got != 0 {
		t.Errorf("expected no progress while paused, got frame %d", got)
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("expected paused marker")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m.Update(tickMsg(time.Now()))
	if got := m.run.Frame().Index; got != 1 {
		t.Errorf("expected frame 1 after resume, got %d", got)
	}
}

func TestMonitorQuit(t *testing.T) {
	m := newTestMonitor(t, 5)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
