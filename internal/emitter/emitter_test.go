package emitter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/particles"
)

func TestBccLattice(t *testing.T) {
	box := r3.Box{Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	var pts []r3.Vec
	BccLattice(box, 0.5, func(p r3.Vec) bool {
		pts = append(pts, p)
		return true
	})
	// Five layers along Z: 3x3 corner layers alternating with 2x2 centered ones.
	assert.Len(t, pts, 3*9+2*4)
	assert.Contains(t, pts, r3.Vec{X: 0.25, Y: 0.25, Z: 0.25})
	for _, p := range pts {
		assert.True(t, geom.BoxContains3(box, p), "%v outside box", p)
	}

	count := 0
	BccLattice(box, 0.5, func(r3.Vec) bool {
		count++
		return count < 3
	})
	assert.Equal(t, 3, count)

	BccLattice(box, 0, func(r3.Vec) bool {
		t.Fatal("zero spacing must not generate points")
		return false
	})
}

func TestTriangleLattice(t *testing.T) {
	box := r2.Box{Max: r2.Vec{X: 1, Y: 1}}
	var pts []r2.Vec
	TriangleLattice(box, 0.5, func(p r2.Vec) bool {
		pts = append(pts, p)
		return true
	})
	// Rows at y = 0, 0.433, 0.866 hold 3, 2 and 3 points.
	assert.Len(t, pts, 8)
	for i, p := range pts {
		for _, q := range pts[i+1:] {
			assert.GreaterOrEqual(t, r2.Norm(r2.Sub(p, q)), 0.5-1e-9)
		}
	}
}

func TestPointEmitter3(t *testing.T) {
	data := particles.NewSystemData3(0)
	dir := r3.Vec{Y: 1}
	e := NewPointEmitter3(r3.Vec{X: 1, Y: 2, Z: 3}, dir, 3, 15, 4, 18, 1)
	e.SetTarget(data)

	want := []int{4, 8, 12, 16, 18, 18, 18}
	frame := anim.NewFrame(0, 1)
	for _, n := range want {
		before := data.NumberOfParticles()
		e.Update(frame.TimeInSeconds(), frame.TimeIntervalInSeconds)
		require.Equal(t, n, data.NumberOfParticles(), "frame %d", frame.Index)

		for _, v := range data.Velocities()[before:] {
			assert.InDelta(t, 3, r3.Norm(v), 1e-9)
			assert.LessOrEqual(t, math.Cos(15*math.Pi/180), r3.Dot(dir, geom.Unit3(v))+1e-12)
		}
		for _, p := range data.Positions()[before:] {
			assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, p)
		}
		frame.Advance()
	}
	assert.Equal(t, 18, e.NumberOfEmittedParticles())
}

func TestPointEmitterDisabled(t *testing.T) {
	data := particles.NewSystemData3(0)
	e := NewPointEmitter3(r3.Vec{}, r3.Vec{X: 1}, 1, 30, 10, 100, 1)
	e.SetTarget(data)
	e.SetIsEnabled(false)
	e.Update(0, 1)
	assert.Zero(t, data.NumberOfParticles())

	// No target is a no-op as well.
	NewPointEmitter3(r3.Vec{}, r3.Vec{X: 1}, 1, 30, 10, 100, 1).Update(0, 1)
}

func TestPointEmitter2(t *testing.T) {
	data := particles.NewSystemData2(0)
	dir := r2.Vec{X: 1}
	e := NewPointEmitter2(r2.Vec{}, dir, 2, 40, 10, 25, 7)
	e.SetTarget(data)

	for i := 0; i < 4; i++ {
		e.Update(float64(i), 1)
	}
	require.Equal(t, 25, data.NumberOfParticles())
	for _, v := range data.Velocities() {
		assert.InDelta(t, 2, r2.Norm(v), 1e-9)
		assert.LessOrEqual(t, math.Cos(20*math.Pi/180), r2.Dot(dir, geom.Unit2(v))+1e-12)
	}
}

func TestPointEmitterWithSolver(t *testing.T) {
	s := particles.NewSolver3(nil)
	e := NewPointEmitter3(r3.Vec{}, r3.Vec{Y: 1}, 1, 10, 60, 1000, 3)
	s.SetEmitter(e)

	frame := anim.NewFrame(0, 1.0/60)
	for ; frame.Index < 10; frame.Advance() {
		require.NoError(t, s.Update(frame))
	}
	assert.Equal(t, e.NumberOfEmittedParticles(), s.Data().NumberOfParticles())
	assert.Positive(t, s.Data().NumberOfParticles())
}

func sphere3(center r3.Vec, radius float64) *geom.Surface3 {
	return geom.NewSurface3(&geom.Sphere3{Radius: radius}, geom.Translate3(center))
}

func TestVolumeEmitter3(t *testing.T) {
	data := particles.NewSystemData3(0)
	center := r3.Vec{X: 1, Y: 1, Z: 1}
	e := NewVolumeEmitter3(sphere3(center, 0.5), r3.Box{Max: r3.Vec{X: 2, Y: 2, Z: 2}}, 0.1, 1)
	e.Jitter = 0.5
	e.InitialVelocity = r3.Vec{X: 1}
	e.SetTarget(data)

	e.Update(0, 0.01)
	n := data.NumberOfParticles()
	require.Positive(t, n)
	assert.Equal(t, n, e.NumberOfEmittedParticles())
	for i, p := range data.Positions() {
		assert.LessOrEqual(t, r3.Norm(r3.Sub(p, center)), 0.5+1e-9)
		assert.Equal(t, r3.Vec{X: 1}, data.Velocities()[i])
	}

	// One-shot emitters disable themselves.
	assert.False(t, e.IsEnabled())
	e.Update(0.01, 0.01)
	assert.Equal(t, n, data.NumberOfParticles())
}

func TestVolumeEmitterLimits(t *testing.T) {
	data := particles.NewSystemData3(0)
	e := NewVolumeEmitter3(sphere3(r3.Vec{}, 1), r3.Box{
		Min: r3.Vec{X: -0.5, Y: -0.5, Z: -0.5},
		Max: r3.Vec{X: 0.5, Y: 0.5, Z: 0.5},
	}, 0.1, 1)
	e.MaxParticles = 30
	e.SetTarget(data)
	e.Update(0, 0.01)
	assert.Equal(t, 30, data.NumberOfParticles())
	for _, p := range data.Positions() {
		assert.True(t, geom.BoxContains3(e.Bounds, p))
	}
}

func TestVolumeEmitterRefill(t *testing.T) {
	data := particles.NewSystemData3(0)
	e := NewVolumeEmitter3(sphere3(r3.Vec{}, 0.3), r3.Box{
		Min: r3.Vec{X: -1, Y: -1, Z: -1},
		Max: r3.Vec{X: 1, Y: 1, Z: 1},
	}, 0.1, 1)
	e.OneShot = false
	e.SetTarget(data)

	e.Update(0, 0.01)
	n := data.NumberOfParticles()
	require.Positive(t, n)
	e.Update(0.01, 0.01)
	assert.Equal(t, n, data.NumberOfParticles(), "occupied lattice points must be skipped")

	e.AllowOverlapping = true
	e.Update(0.02, 0.01)
	assert.Greater(t, data.NumberOfParticles(), n)
}

func TestVolumeEmitterRigidVelocity(t *testing.T) {
	e := NewVolumeEmitter3(sphere3(r3.Vec{X: 1}, 1), r3.Box{}, 0.1, 1)
	e.LinearVelocity = r3.Vec{Y: 1}
	e.AngularVelocity = r3.Vec{Z: 2}
	v := e.VelocityAt(r3.Vec{X: 2})
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 3, v.Y, 1e-12)

	e2 := NewVolumeEmitter2(geom.NewSurface2(&geom.Sphere2{Radius: 1}, geom.Transform2{}), r2.Box{}, 0.1, 1)
	e2.AngularVelocity = 1
	v2 := e2.VelocityAt(r2.Vec{X: 1})
	assert.InDelta(t, 1, v2.Y, 1e-12)
}

func TestVolumeEmitter2(t *testing.T) {
	data := particles.NewSystemData2(0)
	surface := geom.NewSurface2(&geom.Box2{Bound: r2.Box{Max: r2.Vec{X: 1, Y: 0.5}}}, geom.Transform2{})
	e := NewVolumeEmitter2(surface, r2.Box{Max: r2.Vec{X: 10, Y: 10}}, 0.1, 1)
	e.SetTarget(data)
	e.Update(0, 0.01)

	require.Positive(t, data.NumberOfParticles())
	for _, p := range data.Positions() {
		assert.True(t, geom.BoxContains2(surface.Shape.BoundingBoxLocal(), p), "%v", p)
	}
}
