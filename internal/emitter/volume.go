package emitter

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/neighbor"
	"github.com/san-kum/jetsim/internal/particles"
)

// VolumeEmitter3 fills the inside of Surface, clipped to Bounds, with
// particles on a BCC lattice of the given Spacing.
//
// A one-shot emitter fills once and then disables itself. Otherwise every
// update tops the volume up, skipping lattice points that already have a
// particle within Spacing unless AllowOverlapping is set.
type VolumeEmitter3 struct {
	Surface *geom.Surface3
	Bounds  r3.Box
	Spacing float64
	// Jitter in [0, 1] moves each point randomly by up to half a spacing.
	Jitter           float64
	InitialVelocity  r3.Vec
	LinearVelocity   r3.Vec
	AngularVelocity  r3.Vec
	MaxParticles     int
	OneShot          bool
	AllowOverlapping bool

	enabled bool
	target  *particles.SystemData3
	rng     *rand.Rand
	emitted int
}

// NewVolumeEmitter3 returns a one-shot emitter without jitter or a
// particle limit.
func NewVolumeEmitter3(surface *geom.Surface3, bounds r3.Box, spacing float64, seed int64) *VolumeEmitter3 {
	return &VolumeEmitter3{
		Surface:      surface,
		Bounds:       bounds,
		Spacing:      spacing,
		MaxParticles: math.MaxInt,
		OneShot:      true,
		enabled:      true,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (e *VolumeEmitter3) SetTarget(d *particles.SystemData3) { e.target = d }

func (e *VolumeEmitter3) IsEnabled() bool { return e.enabled }

func (e *VolumeEmitter3) SetIsEnabled(enabled bool) { e.enabled = enabled }

func (e *VolumeEmitter3) NumberOfEmittedParticles() int { return e.emitted }

func (e *VolumeEmitter3) Update(_, _ float64) {
	if e.target == nil || !e.enabled || e.Surface == nil {
		return
	}
	positions := e.emit()
	velocities := make([]r3.Vec, len(positions))
	for i, p := range positions {
		velocities[i] = e.VelocityAt(p)
	}
	e.target.AddParticles(positions, velocities, nil)
	if e.OneShot {
		e.enabled = false
	}
}

// VelocityAt is the initial velocity of a particle emitted at p: the
// initial velocity plus the rigid motion of the surface.
func (e *VolumeEmitter3) VelocityAt(p r3.Vec) r3.Vec {
	r := r3.Sub(p, e.Surface.Transform.Translation)
	return r3.Add(r3.Add(e.LinearVelocity, r3.Cross(e.AngularVelocity, r)), e.InitialVelocity)
}

func (e *VolumeEmitter3) emit() []r3.Vec {
	region := geom.Intersect3(e.Bounds, e.Surface.BoundingBox())
	maxJitter := 0.5 * e.Jitter * e.Spacing

	var existing *neighbor.HashGridSearch3
	if !e.OneShot && !e.AllowOverlapping {
		res := particles.SearcherResolution
		existing = neighbor.NewHashGridSearch3(geom.NewSize3(res, res, res), 2*e.Spacing)
		existing.Build(e.target.Positions())
	}

	var out []r3.Vec
	BccLattice(region, e.Spacing, func(p r3.Vec) bool {
		candidate := r3.Add(p, r3.Scale(maxJitter, sampleSphere(e.rng.Float64(), e.rng.Float64())))
		if e.Surface.SignedDistance(candidate) > 0 {
			return true
		}
		if existing != nil && existing.HasNearbyPoint(candidate, e.Spacing) {
			return true
		}
		if e.emitted >= e.MaxParticles {
			return false
		}
		if existing != nil {
			existing.Add(candidate)
		}
		out = append(out, candidate)
		e.emitted++
		return true
	})
	return out
}

// VolumeEmitter2 is the 2D VolumeEmitter3, using a triangular lattice.
// AngularVelocity is in radians per second about the surface translation.
type VolumeEmitter2 struct {
	Surface          *geom.Surface2
	Bounds           r2.Box
	Spacing          float64
	Jitter           float64
	InitialVelocity  r2.Vec
	LinearVelocity   r2.Vec
	AngularVelocity  float64
	MaxParticles     int
	OneShot          bool
	AllowOverlapping bool

	enabled bool
	target  *particles.SystemData2
	rng     *rand.Rand
	emitted int
}

func NewVolumeEmitter2(surface *geom.Surface2, bounds r2.Box, spacing float64, seed int64) *VolumeEmitter2 {
	return &VolumeEmitter2{
		Surface:      surface,
		Bounds:       bounds,
		Spacing:      spacing,
		MaxParticles: math.MaxInt,
		OneShot:      true,
		enabled:      true,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (e *VolumeEmitter2) SetTarget(d *particles.SystemData2) { e.target = d }

func (e *VolumeEmitter2) IsEnabled() bool { return e.enabled }

func (e *VolumeEmitter2) SetIsEnabled(enabled bool) { e.enabled = enabled }

func (e *VolumeEmitter2) NumberOfEmittedParticles() int { return e.emitted }

func (e *VolumeEmitter2) Update(_, _ float64) {
	if e.target == nil || !e.enabled || e.Surface == nil {
		return
	}
	positions := e.emit()
	velocities := make([]r2.Vec, len(positions))
	for i, p := range positions {
		velocities[i] = e.VelocityAt(p)
	}
	e.target.AddParticles(positions, velocities, nil)
	if e.OneShot {
		e.enabled = false
	}
}

func (e *VolumeEmitter2) VelocityAt(p r2.Vec) r2.Vec {
	r := r2.Sub(p, e.Surface.Transform.Translation)
	spin := r2.Vec{X: -e.AngularVelocity * r.Y, Y: e.AngularVelocity * r.X}
	return r2.Add(r2.Add(e.LinearVelocity, spin), e.InitialVelocity)
}

func (e *VolumeEmitter2) emit() []r2.Vec {
	region := geom.Intersect2(e.Bounds, e.Surface.BoundingBox())
	maxJitter := 0.5 * e.Jitter * e.Spacing

	var existing *neighbor.HashGridSearch2
	if !e.OneShot && !e.AllowOverlapping {
		res := particles.SearcherResolution
		existing = neighbor.NewHashGridSearch2(geom.NewSize2(res, res), 2*e.Spacing)
		existing.Build(e.target.Positions())
	}

	var out []r2.Vec
	TriangleLattice(region, e.Spacing, func(p r2.Vec) bool {
		s, c := math.Sincos(2 * math.Pi * e.rng.Float64())
		candidate := r2.Add(p, r2.Vec{X: maxJitter * c, Y: maxJitter * s})
		if e.Surface.SignedDistance(candidate) > 0 {
			return true
		}
		if existing != nil && existing.HasNearbyPoint(candidate, e.Spacing) {
			return true
		}
		if e.emitted >= e.MaxParticles {
			return false
		}
		if existing != nil {
			existing.Add(candidate)
		}
		out = append(out, candidate)
		e.emitted++
		return true
	})
	return out
}
