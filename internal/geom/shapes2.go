package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func unboundedBox2() r2.Box {
	inf := math.Inf(1)
	return r2.Box{Min: r2.Vec{X: -inf, Y: -inf}, Max: r2.Vec{X: inf, Y: inf}}
}

// Plane2 is the infinite line through Point with the given Normal.
type Plane2 struct {
	Normal r2.Vec
	Point  r2.Vec
}

func (pl *Plane2) normal() r2.Vec {
	n := Unit2(pl.Normal)
	if n == (r2.Vec{}) {
		return r2.Vec{Y: 1}
	}
	return n
}

func (pl *Plane2) ClosestPointLocal(p r2.Vec) r2.Vec {
	n := pl.normal()
	r := r2.Sub(p, pl.Point)
	return r2.Add(r2.Sub(r, r2.Scale(r2.Dot(n, r), n)), pl.Point)
}

func (pl *Plane2) ClosestNormalLocal(r2.Vec) r2.Vec { return pl.normal() }

func (pl *Plane2) ClosestDistanceLocal(p r2.Vec) float64 {
	return math.Abs(r2.Dot(pl.normal(), r2.Sub(p, pl.Point)))
}

func (pl *Plane2) BoundingBoxLocal() r2.Box { return unboundedBox2() }

func (pl *Plane2) ClosestIntersectionLocal(ray Ray2) Intersection2 {
	n := pl.normal()
	dDotN := r2.Dot(ray.Direction, n)
	if dDotN == 0 {
		return Intersection2{}
	}
	t := r2.Dot(n, r2.Sub(pl.Point, ray.Origin)) / dDotN
	if t < 0 {
		return Intersection2{}
	}
	return Intersection2{IsHit: true, Distance: t, Point: ray.PointAt(t), Normal: n}
}

// Sphere2 is a circle.
type Sphere2 struct {
	Center r2.Vec
	Radius float64
}

func (s *Sphere2) ClosestPointLocal(p r2.Vec) r2.Vec {
	return r2.Add(s.Center, r2.Scale(s.Radius, s.ClosestNormalLocal(p)))
}

// ClosestNormalLocal returns +X when p coincides with the center.
func (s *Sphere2) ClosestNormalLocal(p r2.Vec) r2.Vec {
	d := r2.Sub(p, s.Center)
	if r2.Norm2(d) < 1e-24 {
		return r2.Vec{X: 1}
	}
	return Unit2(d)
}

func (s *Sphere2) ClosestDistanceLocal(p r2.Vec) float64 {
	return math.Abs(r2.Norm(r2.Sub(p, s.Center)) - s.Radius)
}

func (s *Sphere2) IsInsideLocal(p r2.Vec) bool {
	return r2.Norm(r2.Sub(p, s.Center)) < s.Radius
}

func (s *Sphere2) BoundingBoxLocal() r2.Box {
	r := r2.Vec{X: s.Radius, Y: s.Radius}
	return r2.Box{Min: r2.Sub(s.Center, r), Max: r2.Add(s.Center, r)}
}

func (s *Sphere2) ClosestIntersectionLocal(ray Ray2) Intersection2 {
	r := r2.Sub(ray.Origin, s.Center)
	b := r2.Dot(ray.Direction, r)
	c := r2.Norm2(r) - s.Radius*s.Radius
	d := b*b - c
	if d <= 0 {
		return Intersection2{}
	}
	d = math.Sqrt(d)
	t := -b - d
	if t < 0 {
		t = -b + d
	}
	if t < 0 {
		return Intersection2{}
	}
	p := ray.PointAt(t)
	return Intersection2{IsHit: true, Distance: t, Point: p, Normal: s.ClosestNormalLocal(p)}
}

// Box2 is an axis-aligned rectangle in its local frame.
type Box2 struct {
	Bound r2.Box
}

func (b *Box2) faces() [4]Plane2 {
	lo, hi := b.Bound.Min, b.Bound.Max
	return [4]Plane2{
		{Normal: r2.Vec{X: 1}, Point: hi},
		{Normal: r2.Vec{Y: 1}, Point: hi},
		{Normal: r2.Vec{X: -1}, Point: lo},
		{Normal: r2.Vec{Y: -1}, Point: lo},
	}
}

func (b *Box2) ClosestPointLocal(p r2.Vec) r2.Vec {
	if !BoxContains2(b.Bound, p) {
		return Clamp2(p, b.Bound)
	}
	faces := b.faces()
	best := faces[0].ClosestPointLocal(p)
	bestD2 := Distance2Sq(best, p)
	for i := 1; i < len(faces); i++ {
		cp := faces[i].ClosestPointLocal(p)
		if d2 := Distance2Sq(cp, p); d2 < bestD2 {
			best, bestD2 = cp, d2
		}
	}
	return best
}

func (b *Box2) ClosestNormalLocal(p r2.Vec) r2.Vec {
	faces := b.faces()
	if BoxContains2(b.Bound, p) {
		n := faces[0].Normal
		bestD2 := Distance2Sq(faces[0].ClosestPointLocal(p), p)
		for i := 1; i < len(faces); i++ {
			if d2 := Distance2Sq(faces[i].ClosestPointLocal(p), p); d2 < bestD2 {
				n, bestD2 = faces[i].Normal, d2
			}
		}
		return n
	}

	toPoint := r2.Sub(p, Clamp2(p, b.Bound))
	n := faces[0].Normal
	maxCos := r2.Dot(n, toPoint)
	for i := 1; i < len(faces); i++ {
		if c := r2.Dot(faces[i].Normal, toPoint); c > maxCos {
			n, maxCos = faces[i].Normal, c
		}
	}
	return n
}

func (b *Box2) IsInsideLocal(p r2.Vec) bool {
	return BoxContains2(b.Bound, p)
}

func (b *Box2) BoundingBoxLocal() r2.Box { return b.Bound }

func (b *Box2) ClosestIntersectionLocal(ray Ray2) Intersection2 {
	o := [2]float64{ray.Origin.X, ray.Origin.Y}
	d := [2]float64{ray.Direction.X, ray.Direction.Y}
	lo := [2]float64{b.Bound.Min.X, b.Bound.Min.Y}
	hi := [2]float64{b.Bound.Max.X, b.Bound.Max.Y}

	tNear, tFar, ok := slab(o[:], d[:], lo[:], hi[:])
	if !ok {
		return Intersection2{}
	}
	t := tNear
	if BoxContains2(b.Bound, ray.Origin) {
		t = tFar
	}
	p := ray.PointAt(t)
	return Intersection2{IsHit: true, Distance: t, Point: p, Normal: b.ClosestNormalLocal(p)}
}

// SurfaceSet2 groups curves; every query answers for the nearest member.
type SurfaceSet2 struct {
	Surfaces []*Surface2
}

func (ss *SurfaceSet2) Add(s *Surface2) { ss.Surfaces = append(ss.Surfaces, s) }

func (ss *SurfaceSet2) nearest(p r2.Vec) *Surface2 {
	var best *Surface2
	bestD := math.MaxFloat64
	for _, s := range ss.Surfaces {
		if d := s.ClosestDistance(p); d < bestD {
			best, bestD = s, d
		}
	}
	return best
}

func (ss *SurfaceSet2) ClosestPointLocal(p r2.Vec) r2.Vec {
	if s := ss.nearest(p); s != nil {
		return s.ClosestPoint(p)
	}
	return r2.Vec{X: math.MaxFloat64, Y: math.MaxFloat64}
}

func (ss *SurfaceSet2) ClosestNormalLocal(p r2.Vec) r2.Vec {
	if s := ss.nearest(p); s != nil {
		return s.ClosestNormal(p)
	}
	return r2.Vec{X: 1}
}

func (ss *SurfaceSet2) ClosestDistanceLocal(p r2.Vec) float64 {
	d := math.MaxFloat64
	for _, s := range ss.Surfaces {
		d = math.Min(d, s.ClosestDistance(p))
	}
	return d
}

func (ss *SurfaceSet2) IsInsideLocal(p r2.Vec) bool {
	for _, s := range ss.Surfaces {
		if s.IsInside(p) {
			return true
		}
	}
	return false
}

func (ss *SurfaceSet2) IntersectsLocal(ray Ray2) bool {
	for _, s := range ss.Surfaces {
		if s.Intersects(ray) {
			return true
		}
	}
	return false
}

func (ss *SurfaceSet2) BoundingBoxLocal() r2.Box {
	box := EmptyBox2()
	for _, s := range ss.Surfaces {
		box = Union2(box, s.BoundingBox())
	}
	return box
}

func (ss *SurfaceSet2) ClosestIntersectionLocal(ray Ray2) Intersection2 {
	var best Intersection2
	for _, s := range ss.Surfaces {
		hit := s.ClosestIntersection(ray)
		if hit.IsHit && (!best.IsHit || hit.Distance < best.Distance) {
			best = hit
		}
	}
	return best
}
