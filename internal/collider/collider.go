// Package collider resolves particle collisions against surfaces.
package collider

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
)

// Collider3 is a surface particles cannot pass through.
type Collider3 interface {
	Surface() *geom.Surface3
	VelocityAt(p r3.Vec) r3.Vec
	FrictionCoefficient() float64
	// Update is called before every sub-step with the current time.
	Update(t, dt float64)
	ResolveCollision(radius, restitution float64, pos, vel r3.Vec) (r3.Vec, r3.Vec)
}

// Collider2 is the 2D counterpart of Collider3.
type Collider2 interface {
	Surface() *geom.Surface2
	VelocityAt(p r2.Vec) r2.Vec
	FrictionCoefficient() float64
	Update(t, dt float64)
	ResolveCollision(radius, restitution float64, pos, vel r2.Vec) (r2.Vec, r2.Vec)
}

// resolve3 pushes a penetrating particle to the surface offset by radius
// and reflects the normal part of its velocity relative to the collider.
func resolve3(c Collider3, radius, restitution float64, pos, vel r3.Vec) (r3.Vec, r3.Vec) {
	s := c.Surface()
	cp := s.ClosestPoint(pos)
	n := s.ClosestNormal(pos)
	dist := s.ClosestDistance(pos)

	if r3.Dot(r3.Sub(pos, cp), n) >= 0 && dist >= radius {
		return pos, vel
	}

	target := r3.Add(cp, r3.Scale(radius, n))
	colliderVel := c.VelocityAt(target)
	rel := r3.Sub(vel, colliderVel)
	nDotRel := r3.Dot(n, rel)

	if nDotRel < 0 {
		relN := r3.Scale(nDotRel, n)
		relT := r3.Sub(rel, relN)
		deltaN := r3.Scale(-restitution-1, relN)
		relN = r3.Scale(-restitution, relN)

		if r3.Norm2(relT) > 0 {
			scale := math.Max(1-c.FrictionCoefficient()*r3.Norm(deltaN)/r3.Norm(relT), 0)
			relT = r3.Scale(scale, relT)
		}
		vel = r3.Add(r3.Add(relN, relT), colliderVel)
	}
	return target, vel
}

func resolve2(c Collider2, radius, restitution float64, pos, vel r2.Vec) (r2.Vec, r2.Vec) {
	s := c.Surface()
	cp := s.ClosestPoint(pos)
	n := s.ClosestNormal(pos)
	dist := s.ClosestDistance(pos)

	if r2.Dot(r2.Sub(pos, cp), n) >= 0 && dist >= radius {
		return pos, vel
	}

	target := r2.Add(cp, r2.Scale(radius, n))
	colliderVel := c.VelocityAt(target)
	rel := r2.Sub(vel, colliderVel)
	nDotRel := r2.Dot(n, rel)

	if nDotRel < 0 {
		relN := r2.Scale(nDotRel, n)
		relT := r2.Sub(rel, relN)
		deltaN := r2.Scale(-restitution-1, relN)
		relN = r2.Scale(-restitution, relN)

		if r2.Norm2(relT) > 0 {
			scale := math.Max(1-c.FrictionCoefficient()*r2.Norm(deltaN)/r2.Norm(relT), 0)
			relT = r2.Scale(scale, relT)
		}
		vel = r2.Add(r2.Add(relN, relT), colliderVel)
	}
	return target, vel
}
