package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Shape2 is a 2D curve expressed in its own local frame.
type Shape2 interface {
	ClosestPointLocal(p r2.Vec) r2.Vec
	ClosestNormalLocal(p r2.Vec) r2.Vec
	BoundingBoxLocal() r2.Box
	ClosestIntersectionLocal(ray Ray2) Intersection2
}

// Shapes may implement the optional interfaces below when they can answer
// faster than the defaults derived from the Shape2 methods.

type closestDistancer2 interface {
	ClosestDistanceLocal(p r2.Vec) float64
}

type intersecter2 interface {
	IntersectsLocal(ray Ray2) bool
}

type insider2 interface {
	IsInsideLocal(p r2.Vec) bool
}

// Surface2 places a shape in the world.
type Surface2 struct {
	Shape           Shape2
	Transform       Transform2
	IsNormalFlipped bool
}

func NewSurface2(shape Shape2, t Transform2) *Surface2 {
	return &Surface2{Shape: shape, Transform: t}
}

func (s *Surface2) ClosestPoint(p r2.Vec) r2.Vec {
	return s.Transform.ToWorld(s.Shape.ClosestPointLocal(s.Transform.ToLocal(p)))
}

func (s *Surface2) ClosestDistance(p r2.Vec) float64 {
	return closestDistanceLocal2(s.Shape, s.Transform.ToLocal(p))
}

func (s *Surface2) ClosestNormal(p r2.Vec) r2.Vec {
	n := s.Transform.ToWorldDirection(s.Shape.ClosestNormalLocal(s.Transform.ToLocal(p)))
	if s.IsNormalFlipped {
		n = r2.Scale(-1, n)
	}
	return n
}

func (s *Surface2) BoundingBox() r2.Box {
	return s.Transform.ToWorldBox(s.Shape.BoundingBoxLocal())
}

func (s *Surface2) Intersects(ray Ray2) bool {
	local := s.Transform.ToLocalRay(ray)
	if in, ok := s.Shape.(intersecter2); ok {
		return in.IntersectsLocal(local)
	}
	return s.Shape.ClosestIntersectionLocal(local).IsHit
}

func (s *Surface2) ClosestIntersection(ray Ray2) Intersection2 {
	hit := s.Shape.ClosestIntersectionLocal(s.Transform.ToLocalRay(ray))
	if !hit.IsHit {
		return hit
	}
	hit.Point = s.Transform.ToWorld(hit.Point)
	hit.Normal = s.Transform.ToWorldDirection(hit.Normal)
	if s.IsNormalFlipped {
		hit.Normal = r2.Scale(-1, hit.Normal)
	}
	return hit
}

// IsInside reports whether p is on the inner side of the surface, taking
// IsNormalFlipped into account.
func (s *Surface2) IsInside(p r2.Vec) bool {
	return s.IsNormalFlipped != isInsideLocal2(s.Shape, s.Transform.ToLocal(p))
}

// SignedDistance is negative inside the surface and positive outside.
func (s *Surface2) SignedDistance(p r2.Vec) float64 {
	d := s.ClosestDistance(p)
	if s.IsInside(p) {
		return -d
	}
	return d
}

func closestDistanceLocal2(shape Shape2, p r2.Vec) float64 {
	if cd, ok := shape.(closestDistancer2); ok {
		return cd.ClosestDistanceLocal(p)
	}
	return r2.Norm(r2.Sub(p, shape.ClosestPointLocal(p)))
}

func isInsideLocal2(shape Shape2, p r2.Vec) bool {
	if in, ok := shape.(insider2); ok {
		return in.IsInsideLocal(p)
	}
	cp := shape.ClosestPointLocal(p)
	n := shape.ClosestNormalLocal(p)
	return r2.Dot(r2.Sub(p, cp), n) < 0
}
