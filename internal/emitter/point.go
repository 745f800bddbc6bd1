package emitter

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/numeric"
	"github.com/san-kum/jetsim/internal/particles"
)

// PointEmitter3 shoots particles from a point inside a cone around
// Direction, at most MaxNewParticlesPerSecond and MaxParticles in total.
type PointEmitter3 struct {
	Origin    r3.Vec
	Direction r3.Vec
	Speed     float64
	// SpreadAngle is the full cone angle in degrees.
	SpreadAngle              float64
	MaxNewParticlesPerSecond float64
	MaxParticles             int

	enabled   bool
	target    *particles.SystemData3
	rng       *rand.Rand
	firstTime float64
	emitted   int
}

func NewPointEmitter3(origin, direction r3.Vec, speed, spreadAngle, rate float64, maxParticles int, seed int64) *PointEmitter3 {
	return &PointEmitter3{
		Origin:                   origin,
		Direction:                geom.Unit3(direction),
		Speed:                    speed,
		SpreadAngle:              spreadAngle,
		MaxNewParticlesPerSecond: rate,
		MaxParticles:             maxParticles,
		enabled:                  true,
		rng:                      rand.New(rand.NewSource(seed)),
	}
}

func (e *PointEmitter3) SetTarget(d *particles.SystemData3) { e.target = d }

func (e *PointEmitter3) Target() *particles.SystemData3 { return e.target }

func (e *PointEmitter3) IsEnabled() bool { return e.enabled }

func (e *PointEmitter3) SetIsEnabled(enabled bool) { e.enabled = enabled }

// NumberOfEmittedParticles counts every particle emitted so far.
func (e *PointEmitter3) NumberOfEmittedParticles() int { return e.emitted }

// Update emits the particles owed for the interval [t, t+dt), measured
// from the first update.
func (e *PointEmitter3) Update(t, dt float64) {
	if e.target == nil || !e.enabled {
		return
	}
	if e.emitted == 0 {
		e.firstTime = t
	}
	n := owed(t-e.firstTime, dt, e.MaxNewParticlesPerSecond, e.MaxParticles, e.emitted)
	if n <= 0 {
		return
	}

	positions := make([]r3.Vec, n)
	velocities := make([]r3.Vec, n)
	half := e.SpreadAngle * math.Pi / 360
	for i := 0; i < n; i++ {
		positions[i] = e.Origin
		velocities[i] = r3.Scale(e.Speed, sampleCone(e.rng.Float64(), e.rng.Float64(), e.Direction, half))
	}
	e.target.AddParticles(positions, velocities, nil)
	e.emitted += n
}

// PointEmitter2 is the 2D PointEmitter3. Directions are spread uniformly
// across SpreadAngle degrees.
type PointEmitter2 struct {
	Origin                   r2.Vec
	Direction                r2.Vec
	Speed                    float64
	SpreadAngle              float64
	MaxNewParticlesPerSecond float64
	MaxParticles             int

	enabled   bool
	target    *particles.SystemData2
	rng       *rand.Rand
	firstTime float64
	emitted   int
}

func NewPointEmitter2(origin, direction r2.Vec, speed, spreadAngle, rate float64, maxParticles int, seed int64) *PointEmitter2 {
	return &PointEmitter2{
		Origin:                   origin,
		Direction:                geom.Unit2(direction),
		Speed:                    speed,
		SpreadAngle:              spreadAngle,
		MaxNewParticlesPerSecond: rate,
		MaxParticles:             maxParticles,
		enabled:                  true,
		rng:                      rand.New(rand.NewSource(seed)),
	}
}

func (e *PointEmitter2) SetTarget(d *particles.SystemData2) { e.target = d }

func (e *PointEmitter2) Target() *particles.SystemData2 { return e.target }

func (e *PointEmitter2) IsEnabled() bool { return e.enabled }

func (e *PointEmitter2) SetIsEnabled(enabled bool) { e.enabled = enabled }

func (e *PointEmitter2) NumberOfEmittedParticles() int { return e.emitted }

func (e *PointEmitter2) Update(t, dt float64) {
	if e.target == nil || !e.enabled {
		return
	}
	if e.emitted == 0 {
		e.firstTime = t
	}
	n := owed(t-e.firstTime, dt, e.MaxNewParticlesPerSecond, e.MaxParticles, e.emitted)
	if n <= 0 {
		return
	}

	positions := make([]r2.Vec, n)
	velocities := make([]r2.Vec, n)
	spread := e.SpreadAngle * math.Pi / 180
	for i := 0; i < n; i++ {
		positions[i] = e.Origin
		dir := geom.Rotate2(e.Direction, spread*(e.rng.Float64()-0.5))
		velocities[i] = r2.Scale(e.Speed, dir)
	}
	e.target.AddParticles(positions, velocities, nil)
	e.emitted += n
}

func owed(elapsed, dt, rate float64, maxParticles, emitted int) int {
	total := min(numeric.Ceil((elapsed+dt)*rate), maxParticles)
	return total - emitted
}

// sampleCone maps two uniform samples to a unit vector within angle
// radians of axis.
func sampleCone(u1, u2 float64, axis r3.Vec, angle float64) r3.Vec {
	cosAngle := math.Cos(angle)
	y := 1 - (1-cosAngle)*u1
	r := math.Sqrt(max(0, 1-y*y))
	s, c := math.Sincos(2 * math.Pi * u2)
	t0, t1 := geom.Tangentials3(axis)
	return r3.Add(r3.Add(r3.Scale(r*c, t0), r3.Scale(y, axis)), r3.Scale(r*s, t1))
}

// sampleSphere maps two uniform samples to a unit vector.
func sampleSphere(u1, u2 float64) r3.Vec {
	y := 1 - 2*u1
	r := math.Sqrt(max(0, 1-y*y))
	s, c := math.Sincos(2 * math.Pi * u2)
	return r3.Vec{X: r * c, Y: y, Z: r * s}
}
