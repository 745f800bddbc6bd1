// Package metrics samples scalar summaries of a fluid once per frame.
package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/sph"
)

// Fluid is the read-only particle view metrics observe.
type Fluid interface {
	NumberOfParticles() int
	Mass() float64
	TargetDensity() float64
	Densities() []float64
	SquaredSpeed(i int) float64
}

type fluid3 struct{ *sph.SystemData3 }

func (f fluid3) SquaredSpeed(i int) float64 {
	v := f.Velocities()[i]
	return r3.Dot(v, v)
}

type fluid2 struct{ *sph.SystemData2 }

func (f fluid2) SquaredSpeed(i int) float64 {
	v := f.Velocities()[i]
	return r2.Dot(v, v)
}

func Of3(d *sph.SystemData3) Fluid { return fluid3{d} }

func Of2(d *sph.SystemData2) Fluid { return fluid2{d} }

type Metric interface {
	Name() string
	Observe(f Fluid, t float64)
	Value() float64
	Reset()
}

// Default returns a fresh set of the standard metrics.
func Default() []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewMaxDensity(),
		NewParticleCount(),
		NewStability(DefaultSpeedLimit),
	}
}

// Recorder observes a fluid after every frame and keeps the history of
// each metric's value.
type Recorder struct {
	fluid   Fluid
	metrics []Metric
	times   []float64
	history map[string][]float64
}

func NewRecorder(f Fluid, metrics ...Metric) *Recorder {
	return &Recorder{
		fluid:   f,
		metrics: metrics,
		history: make(map[string][]float64, len(metrics)),
	}
}

func (r *Recorder) OnFrame(_ anim.Frame, t float64) {
	r.times = append(r.times, t)
	for _, m := range r.metrics {
		m.Observe(r.fluid, t)
		r.history[m.Name()] = append(r.history[m.Name()], m.Value())
	}
}

func (r *Recorder) Metrics() []Metric { return r.metrics }

func (r *Recorder) Times() []float64 { return r.times }

// History returns the per-frame values of the named metric.
func (r *Recorder) History(name string) []float64 { return r.history[name] }

// Values maps each metric name to its latest value.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.times = r.times[:0]
	clear(r.history)
	for _, m := range r.metrics {
		m.Reset()
	}
}
