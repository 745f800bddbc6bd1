package collider

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
)

// RigidBodyCollider3 moves with a linear and an angular velocity about its
// surface's translation.
type RigidBodyCollider3 struct {
	surface         *geom.Surface3
	LinearVelocity  r3.Vec
	AngularVelocity r3.Vec
	Friction        float64

	// OnUpdate, if set, runs on every Update, typically to animate the
	// surface transform or velocities.
	OnUpdate func(c *RigidBodyCollider3, t, dt float64)
}

func NewRigidBodyCollider3(s *geom.Surface3) *RigidBodyCollider3 {
	return &RigidBodyCollider3{surface: s}
}

func (c *RigidBodyCollider3) Surface() *geom.Surface3 { return c.surface }

func (c *RigidBodyCollider3) FrictionCoefficient() float64 { return c.Friction }

func (c *RigidBodyCollider3) VelocityAt(p r3.Vec) r3.Vec {
	r := r3.Sub(p, c.surface.Transform.Translation)
	return r3.Add(c.LinearVelocity, r3.Cross(c.AngularVelocity, r))
}

func (c *RigidBodyCollider3) Update(t, dt float64) {
	if c.OnUpdate != nil {
		c.OnUpdate(c, t, dt)
	}
}

func (c *RigidBodyCollider3) ResolveCollision(radius, restitution float64, pos, vel r3.Vec) (r3.Vec, r3.Vec) {
	return resolve3(c, radius, restitution, pos, vel)
}

// RigidBodyCollider2 spins with a scalar angular velocity about its
// surface's translation.
type RigidBodyCollider2 struct {
	surface         *geom.Surface2
	LinearVelocity  r2.Vec
	AngularVelocity float64
	Friction        float64

	OnUpdate func(c *RigidBodyCollider2, t, dt float64)
}

func NewRigidBodyCollider2(s *geom.Surface2) *RigidBodyCollider2 {
	return &RigidBodyCollider2{surface: s}
}

func (c *RigidBodyCollider2) Surface() *geom.Surface2 { return c.surface }

func (c *RigidBodyCollider2) FrictionCoefficient() float64 { return c.Friction }

func (c *RigidBodyCollider2) VelocityAt(p r2.Vec) r2.Vec {
	r := r2.Sub(p, c.surface.Transform.Translation)
	return r2.Add(c.LinearVelocity, r2.Vec{X: -c.AngularVelocity * r.Y, Y: c.AngularVelocity * r.X})
}

func (c *RigidBodyCollider2) Update(t, dt float64) {
	if c.OnUpdate != nil {
		c.OnUpdate(c, t, dt)
	}
}

func (c *RigidBodyCollider2) ResolveCollision(radius, restitution float64, pos, vel r2.Vec) (r2.Vec, r2.Vec) {
	return resolve2(c, radius, restitution, pos, vel)
}
