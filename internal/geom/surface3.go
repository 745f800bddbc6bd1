package geom

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Shape3 is a 3D surface expressed in its own local frame.
type Shape3 interface {
	ClosestPointLocal(p r3.Vec) r3.Vec
	ClosestNormalLocal(p r3.Vec) r3.Vec
	BoundingBoxLocal() r3.Box
	ClosestIntersectionLocal(ray Ray3) Intersection3
}

// Shapes may implement the optional interfaces below when they can answer
// faster than the defaults derived from the Shape3 methods.

type closestDistancer3 interface {
	ClosestDistanceLocal(p r3.Vec) float64
}

type intersecter3 interface {
	IntersectsLocal(ray Ray3) bool
}

type insider3 interface {
	IsInsideLocal(p r3.Vec) bool
}

// Surface3 places a shape in the world.
type Surface3 struct {
	Shape           Shape3
	Transform       Transform3
	IsNormalFlipped bool
}

func NewSurface3(shape Shape3, t Transform3) *Surface3 {
	return &Surface3{Shape: shape, Transform: t}
}

func (s *Surface3) ClosestPoint(p r3.Vec) r3.Vec {
	return s.Transform.ToWorld(s.Shape.ClosestPointLocal(s.Transform.ToLocal(p)))
}

func (s *Surface3) ClosestDistance(p r3.Vec) float64 {
	return closestDistanceLocal3(s.Shape, s.Transform.ToLocal(p))
}

func (s *Surface3) ClosestNormal(p r3.Vec) r3.Vec {
	n := s.Transform.ToWorldDirection(s.Shape.ClosestNormalLocal(s.Transform.ToLocal(p)))
	if s.IsNormalFlipped {
		n = r3.Scale(-1, n)
	}
	return n
}

func (s *Surface3) BoundingBox() r3.Box {
	return s.Transform.ToWorldBox(s.Shape.BoundingBoxLocal())
}

func (s *Surface3) Intersects(ray Ray3) bool {
	local := s.Transform.ToLocalRay(ray)
	if in, ok := s.Shape.(intersecter3); ok {
		return in.IntersectsLocal(local)
	}
	return s.Shape.ClosestIntersectionLocal(local).IsHit
}

func (s *Surface3) ClosestIntersection(ray Ray3) Intersection3 {
	hit := s.Shape.ClosestIntersectionLocal(s.Transform.ToLocalRay(ray))
	if !hit.IsHit {
		return hit
	}
	hit.Point = s.Transform.ToWorld(hit.Point)
	hit.Normal = s.Transform.ToWorldDirection(hit.Normal)
	if s.IsNormalFlipped {
		hit.Normal = r3.Scale(-1, hit.Normal)
	}
	return hit
}

// IsInside reports whether p is on the inner side of the surface, taking
// IsNormalFlipped into account.
func (s *Surface3) IsInside(p r3.Vec) bool {
	return s.IsNormalFlipped != isInsideLocal3(s.Shape, s.Transform.ToLocal(p))
}

// SignedDistance is negative inside the surface and positive outside.
func (s *Surface3) SignedDistance(p r3.Vec) float64 {
	d := s.ClosestDistance(p)
	if s.IsInside(p) {
		return -d
	}
	return d
}

func closestDistanceLocal3(shape Shape3, p r3.Vec) float64 {
	if cd, ok := shape.(closestDistancer3); ok {
		return cd.ClosestDistanceLocal(p)
	}
	return r3.Norm(r3.Sub(p, shape.ClosestPointLocal(p)))
}

func isInsideLocal3(shape Shape3, p r3.Vec) bool {
	if in, ok := shape.(insider3); ok {
		return in.IsInsideLocal(p)
	}
	cp := shape.ClosestPointLocal(p)
	n := shape.ClosestNormalLocal(p)
	return r3.Dot(r3.Sub(p, cp), n) < 0
}
