// Package scenario turns a config into a ready-to-run fluid simulation.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/config"
	"github.com/san-kum/jetsim/internal/metrics"
)

var ErrUnknownScenario = errors.New("scenario: unknown scenario")

// Solver is what a Run drives; sph.Solver2 and sph.Solver3 satisfy it.
type Solver interface {
	anim.Animation
	AddObserver(o anim.Observer)
	SetLogger(l logr.Logger)
	CurrentFrameIndex() int64
	CurrentTimeInSeconds() float64
}

// Fluid is the particle data of a Run.
type Fluid interface {
	NumberOfParticles() int
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}

// Run is one configured simulation. It advances one frame per Step.
type Run struct {
	Name     string
	Config   *config.Config
	Solver   Solver
	Fluid    Fluid
	Recorder *metrics.Recorder

	frame   anim.Frame
	project func() []r2.Vec
}

func newRun(cfg *config.Config, s Solver, fluid Fluid, view metrics.Fluid, project func() []r2.Vec) *Run {
	r := &Run{
		Name:     cfg.Scenario,
		Config:   cfg,
		Solver:   s,
		Fluid:    fluid,
		Recorder: metrics.NewRecorder(view, metrics.Default()...),
		frame:    anim.NewFrame(0, cfg.TimeStep()),
		project:  project,
	}
	s.AddObserver(r.Recorder)
	return r
}

// Update brings the run to frame, so a Run can join an anim.Ensemble.
func (r *Run) Update(frame anim.Frame) error {
	if err := r.Solver.Update(frame); err != nil {
		return err
	}
	if frame.Index >= r.frame.Index {
		r.frame = frame
		r.frame.Advance()
	}
	return nil
}

// Frame is the next frame Step will compute.
func (r *Run) Frame() anim.Frame { return r.frame }

func (r *Run) Step() error { return r.Update(r.frame) }

// RunFrames steps n frames, stopping early when ctx is done.
func (r *Run) RunFrames(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(); err != nil {
			return fmt.Errorf("%s frame %d: %w", r.Name, r.frame.Index, err)
		}
	}
	return nil
}

func (r *Run) SetLogger(l logr.Logger) { r.Solver.SetLogger(l) }

func (r *Run) NumberOfParticles() int { return r.Fluid.NumberOfParticles() }

// ProjectedPositions returns the particle positions in the XY plane.
func (r *Run) ProjectedPositions() []r2.Vec { return r.project() }

// Domain is the XY extent of the container.
func (r *Run) Domain() r2.Box {
	return r2.Box{Max: r2.Vec{X: r.Config.Collider.Domain[0], Y: r.Config.Collider.Domain[1]}}
}

// Builder creates a Run from a validated config.
type Builder func(cfg *config.Config) (*Run, error)

var (
	mu       sync.RWMutex
	builders = map[string]Builder{}
)

func init() {
	Register("block", buildBlock)
	Register("drop", buildDrop)
	Register("fountain", buildFountain)
}

// Register makes a scenario available to New. It replaces any builder
// with the same name.
func Register(name string, b Builder) {
	mu.Lock()
	defer mu.Unlock()
	builders[name] = b
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New validates cfg and builds the scenario it names.
func New(cfg *config.Config) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mu.RLock()
	b, ok := builders[cfg.Scenario]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, cfg.Scenario)
	}
	return b(cfg)
}
