package collider

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/numeric"
)

// ColliderSet3 combines colliders. Collisions are resolved against the
// union of their surfaces; velocities come from the nearest member.
type ColliderSet3 struct {
	colliders []Collider3
	set       *geom.SurfaceSet3
	surface   *geom.Surface3
	Friction  float64
}

func NewColliderSet3(colliders ...Collider3) *ColliderSet3 {
	set := &geom.SurfaceSet3{}
	cs := &ColliderSet3{set: set, surface: geom.NewSurface3(set, geom.Identity3())}
	for _, c := range colliders {
		cs.Add(c)
	}
	return cs
}

func (cs *ColliderSet3) Add(c Collider3) {
	cs.colliders = append(cs.colliders, c)
	cs.set.Add(c.Surface())
}

func (cs *ColliderSet3) Len() int { return len(cs.colliders) }

func (cs *ColliderSet3) Collider(i int) Collider3 { return cs.colliders[i] }

func (cs *ColliderSet3) Surface() *geom.Surface3 { return cs.surface }

func (cs *ColliderSet3) FrictionCoefficient() float64 { return cs.Friction }

// VelocityAt returns the velocity of the member nearest to p, or zero for
// an empty set.
func (cs *ColliderSet3) VelocityAt(p r3.Vec) r3.Vec {
	closest, closestDist := numeric.MaxSize, math.MaxFloat64
	for i, c := range cs.colliders {
		if d := c.Surface().ClosestDistance(p); d < closestDist {
			closest, closestDist = i, d
		}
	}
	if closest == numeric.MaxSize {
		return r3.Vec{}
	}
	return cs.colliders[closest].VelocityAt(p)
}

// Update forwards to every member.
func (cs *ColliderSet3) Update(t, dt float64) {
	for _, c := range cs.colliders {
		c.Update(t, dt)
	}
}

func (cs *ColliderSet3) ResolveCollision(radius, restitution float64, pos, vel r3.Vec) (r3.Vec, r3.Vec) {
	if len(cs.colliders) == 0 {
		return pos, vel
	}
	return resolve3(cs, radius, restitution, pos, vel)
}

// ColliderSet2 is the 2D counterpart of ColliderSet3.
type ColliderSet2 struct {
	colliders []Collider2
	set       *geom.SurfaceSet2
	surface   *geom.Surface2
	Friction  float64
}

func NewColliderSet2(colliders ...Collider2) *ColliderSet2 {
	set := &geom.SurfaceSet2{}
	cs := &ColliderSet2{set: set, surface: geom.NewSurface2(set, geom.Transform2{})}
	for _, c := range colliders {
		cs.Add(c)
	}
	return cs
}

func (cs *ColliderSet2) Add(c Collider2) {
	cs.colliders = append(cs.colliders, c)
	cs.set.Add(c.Surface())
}

func (cs *ColliderSet2) Len() int { return len(cs.colliders) }

func (cs *ColliderSet2) Collider(i int) Collider2 { return cs.colliders[i] }

func (cs *ColliderSet2) Surface() *geom.Surface2 { return cs.surface }

func (cs *ColliderSet2) FrictionCoefficient() float64 { return cs.Friction }

func (cs *ColliderSet2) VelocityAt(p r2.Vec) r2.Vec {
	closest, closestDist := numeric.MaxSize, math.MaxFloat64
	for i, c := range cs.colliders {
		if d := c.Surface().ClosestDistance(p); d < closestDist {
			closest, closestDist = i, d
		}
	}
	if closest == numeric.MaxSize {
		return r2.Vec{}
	}
	return cs.colliders[closest].VelocityAt(p)
}

func (cs *ColliderSet2) Update(t, dt float64) {
	for _, c := range cs.colliders {
		c.Update(t, dt)
	}
}

func (cs *ColliderSet2) ResolveCollision(radius, restitution float64, pos, vel r2.Vec) (r2.Vec, r2.Vec) {
	if len(cs.colliders) == 0 {
		return pos, vel
	}
	return resolve2(cs, radius, restitution, pos, vel)
}
