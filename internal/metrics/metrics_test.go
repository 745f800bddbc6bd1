package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/sph"
)

func TestKineticEnergy(t *testing.T) {
	d := sph.NewSystemData3(0)
	d.AddParticle(r3.Vec{}, r3.Vec{X: 3, Y: 4}, r3.Vec{})
	d.AddParticle(r3.Vec{X: 1}, r3.Vec{Z: 1}, r3.Vec{})

	m := NewKineticEnergy()
	m.Observe(Of3(d), 0)

	want := 0.5 * d.Mass() * (25 + 1)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected energy %f, got %f", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestMaxDensity(t *testing.T) {
	d := sph.NewSystemData2(2)
	copy(d.Densities(), []float64{500, 1500})

	m := NewMaxDensity()
	m.Observe(Of2(d), 0)
	if m.Value() != 1.5 {
		t.Errorf("expected ratio 1.5, got %f", m.Value())
	}

	m.Observe(Of2(sph.NewSystemData2(0)), 1)
	if m.Value() != 0 {
		t.Errorf("expected 0 for an empty fluid, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	d := sph.NewSystemData2(1)
	f := Of2(d)
	s := NewStability(10)

	if s.Value() != 1 {
		t.Error("expected full stability before any sample")
	}
	s.Observe(f, 0)
	d.Velocities()[0] = r2.Vec{X: 20}
	s.Observe(f, 1)
	d.Velocities()[0] = r2.Vec{X: math.NaN()}
	s.Observe(f, 2)
	d.Velocities()[0] = r2.Vec{}
	s.Observe(f, 3)

	if got := s.Value(); got != 0.5 {
		t.Errorf("expected stability 0.5, got %f", got)
	}
}

func TestRecorder(t *testing.T) {
	d := sph.NewSystemData3(0)
	r := NewRecorder(Of3(d), Default()...)

	frame := anim.NewFrame(0, 0.1)
	for i := 0; i < 3; i++ {
		d.AddParticle(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{})
		r.OnFrame(frame, frame.TimeInSeconds())
		frame.Advance()
	}

	counts := r.History("particles")
	if len(counts) != 3 || counts[0] != 1 || counts[2] != 3 {
		t.Errorf("unexpected particle history %v", counts)
	}
	if len(r.Times()) != 3 || math.Abs(r.Times()[2]-0.2) > 1e-12 {
		t.Errorf("unexpected times %v", r.Times())
	}

	values := r.Values()
	for _, m := range r.Metrics() {
		if _, ok := values[m.Name()]; !ok {
			t.Errorf("missing value for %s", m.Name())
		}
	}
	if values["stability"] != 1 {
		t.Errorf("expected stable run, got %f", values["stability"])
	}

	r.Reset()
	if len(r.Times()) != 0 || r.History("particles") != nil {
		t.Error("expected empty history after reset")
	}
}
