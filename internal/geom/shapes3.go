package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func unboundedBox3() r3.Box {
	inf := math.Inf(1)
	return r3.Box{Min: r3.Vec{X: -inf, Y: -inf, Z: -inf}, Max: r3.Vec{X: inf, Y: inf, Z: inf}}
}

// Plane3 is the infinite plane through Point with the given Normal.
type Plane3 struct {
	Normal r3.Vec
	Point  r3.Vec
}

func (pl *Plane3) normal() r3.Vec {
	n := Unit3(pl.Normal)
	if n == (r3.Vec{}) {
		return r3.Vec{Y: 1}
	}
	return n
}

func (pl *Plane3) ClosestPointLocal(p r3.Vec) r3.Vec {
	n := pl.normal()
	r := r3.Sub(p, pl.Point)
	return r3.Add(r3.Sub(r, r3.Scale(r3.Dot(n, r), n)), pl.Point)
}

func (pl *Plane3) ClosestNormalLocal(r3.Vec) r3.Vec { return pl.normal() }

func (pl *Plane3) ClosestDistanceLocal(p r3.Vec) float64 {
	return math.Abs(r3.Dot(pl.normal(), r3.Sub(p, pl.Point)))
}

func (pl *Plane3) BoundingBoxLocal() r3.Box { return unboundedBox3() }

func (pl *Plane3) ClosestIntersectionLocal(ray Ray3) Intersection3 {
	n := pl.normal()
	dDotN := r3.Dot(ray.Direction, n)
	if math.Abs(dDotN) == 0 {
		return Intersection3{}
	}
	t := r3.Dot(n, r3.Sub(pl.Point, ray.Origin)) / dDotN
	if t < 0 {
		return Intersection3{}
	}
	return Intersection3{IsHit: true, Distance: t, Point: ray.PointAt(t), Normal: n}
}

// Sphere3 is a sphere shell.
type Sphere3 struct {
	Center r3.Vec
	Radius float64
}

func (s *Sphere3) ClosestPointLocal(p r3.Vec) r3.Vec {
	return r3.Add(s.Center, r3.Scale(s.Radius, s.ClosestNormalLocal(p)))
}

// ClosestNormalLocal returns +X when p coincides with the center.
func (s *Sphere3) ClosestNormalLocal(p r3.Vec) r3.Vec {
	d := r3.Sub(p, s.Center)
	if r3.Norm2(d) < 1e-24 {
		return r3.Vec{X: 1}
	}
	return Unit3(d)
}

func (s *Sphere3) ClosestDistanceLocal(p r3.Vec) float64 {
	return math.Abs(r3.Norm(r3.Sub(p, s.Center)) - s.Radius)
}

func (s *Sphere3) IsInsideLocal(p r3.Vec) bool {
	return r3.Norm(r3.Sub(p, s.Center)) < s.Radius
}

func (s *Sphere3) BoundingBoxLocal() r3.Box {
	r := r3.Vec{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return r3.Box{Min: r3.Sub(s.Center, r), Max: r3.Add(s.Center, r)}
}

func (s *Sphere3) ClosestIntersectionLocal(ray Ray3) Intersection3 {
	r := r3.Sub(ray.Origin, s.Center)
	b := r3.Dot(ray.Direction, r)
	c := r3.Norm2(r) - s.Radius*s.Radius
	d := b*b - c
	if d <= 0 {
		return Intersection3{}
	}
	d = math.Sqrt(d)
	t := -b - d
	if t < 0 {
		t = -b + d
	}
	if t < 0 {
		return Intersection3{}
	}
	p := ray.PointAt(t)
	return Intersection3{IsHit: true, Distance: t, Point: p, Normal: s.ClosestNormalLocal(p)}
}

// Box3 is an axis-aligned box in its local frame.
type Box3 struct {
	Bound r3.Box
}

func (b *Box3) faces() [6]Plane3 {
	lo, hi := b.Bound.Min, b.Bound.Max
	return [6]Plane3{
		{Normal: r3.Vec{X: 1}, Point: hi},
		{Normal: r3.Vec{Y: 1}, Point: hi},
		{Normal: r3.Vec{Z: 1}, Point: hi},
		{Normal: r3.Vec{X: -1}, Point: lo},
		{Normal: r3.Vec{Y: -1}, Point: lo},
		{Normal: r3.Vec{Z: -1}, Point: lo},
	}
}

func (b *Box3) ClosestPointLocal(p r3.Vec) r3.Vec {
	if !BoxContains3(b.Bound, p) {
		return Clamp3(p, b.Bound)
	}
	faces := b.faces()
	best := faces[0].ClosestPointLocal(p)
	bestD2 := Distance3Sq(best, p)
	for i := 1; i < len(faces); i++ {
		cp := faces[i].ClosestPointLocal(p)
		if d2 := Distance3Sq(cp, p); d2 < bestD2 {
			best, bestD2 = cp, d2
		}
	}
	return best
}

func (b *Box3) ClosestNormalLocal(p r3.Vec) r3.Vec {
	faces := b.faces()
	if BoxContains3(b.Bound, p) {
		n := faces[0].Normal
		bestD2 := Distance3Sq(faces[0].ClosestPointLocal(p), p)
		for i := 1; i < len(faces); i++ {
			if d2 := Distance3Sq(faces[i].ClosestPointLocal(p), p); d2 < bestD2 {
				n, bestD2 = faces[i].Normal, d2
			}
		}
		return n
	}

	toPoint := r3.Sub(p, Clamp3(p, b.Bound))
	n := faces[0].Normal
	maxCos := r3.Dot(n, toPoint)
	for i := 1; i < len(faces); i++ {
		if c := r3.Dot(faces[i].Normal, toPoint); c > maxCos {
			n, maxCos = faces[i].Normal, c
		}
	}
	return n
}

func (b *Box3) IsInsideLocal(p r3.Vec) bool {
	return BoxContains3(b.Bound, p)
}

func (b *Box3) BoundingBoxLocal() r3.Box { return b.Bound }

func (b *Box3) ClosestIntersectionLocal(ray Ray3) Intersection3 {
	o := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	d := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo := [3]float64{b.Bound.Min.X, b.Bound.Min.Y, b.Bound.Min.Z}
	hi := [3]float64{b.Bound.Max.X, b.Bound.Max.Y, b.Bound.Max.Z}

	tNear, tFar, ok := slab(o[:], d[:], lo[:], hi[:])
	if !ok {
		return Intersection3{}
	}
	t := tNear
	if BoxContains3(b.Bound, ray.Origin) {
		t = tFar
	}
	p := ray.PointAt(t)
	return Intersection3{IsHit: true, Distance: t, Point: p, Normal: b.ClosestNormalLocal(p)}
}

// slab clips the ray against an axis-aligned box and returns the entry and
// exit parameters along it.
func slab(o, d, lo, hi []float64) (tMin, tMax float64, ok bool) {
	tMin, tMax = 0, math.MaxFloat64
	for i := range o {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d[i]
		tn := (lo[i] - o[i]) * inv
		tf := (hi[i] - o[i]) * inv
		if tn > tf {
			tn, tf = tf, tn
		}
		tMin = math.Max(tMin, tn)
		tMax = math.Min(tMax, tf)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// SurfaceSet3 groups surfaces; every query answers for the nearest member.
type SurfaceSet3 struct {
	Surfaces []*Surface3
}

func (ss *SurfaceSet3) Add(s *Surface3) { ss.Surfaces = append(ss.Surfaces, s) }

func (ss *SurfaceSet3) nearest(p r3.Vec) *Surface3 {
	var best *Surface3
	bestD := math.MaxFloat64
	for _, s := range ss.Surfaces {
		if d := s.ClosestDistance(p); d < bestD {
			best, bestD = s, d
		}
	}
	return best
}

func (ss *SurfaceSet3) ClosestPointLocal(p r3.Vec) r3.Vec {
	if s := ss.nearest(p); s != nil {
		return s.ClosestPoint(p)
	}
	return r3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
}

func (ss *SurfaceSet3) ClosestNormalLocal(p r3.Vec) r3.Vec {
	if s := ss.nearest(p); s != nil {
		return s.ClosestNormal(p)
	}
	return r3.Vec{X: 1}
}

func (ss *SurfaceSet3) ClosestDistanceLocal(p r3.Vec) float64 {
	d := math.MaxFloat64
	for _, s := range ss.Surfaces {
		d = math.Min(d, s.ClosestDistance(p))
	}
	return d
}

func (ss *SurfaceSet3) IsInsideLocal(p r3.Vec) bool {
	for _, s := range ss.Surfaces {
		if s.IsInside(p) {
			return true
		}
	}
	return false
}

func (ss *SurfaceSet3) IntersectsLocal(ray Ray3) bool {
	for _, s := range ss.Surfaces {
		if s.Intersects(ray) {
			return true
		}
	}
	return false
}

func (ss *SurfaceSet3) BoundingBoxLocal() r3.Box {
	box := EmptyBox3()
	for _, s := range ss.Surfaces {
		box = Union3(box, s.BoundingBox())
	}
	return box
}

func (ss *SurfaceSet3) ClosestIntersectionLocal(ray Ray3) Intersection3 {
	var best Intersection3
	for _, s := range ss.Surfaces {
		hit := s.ClosestIntersection(ray)
		if hit.IsHit && (!best.IsHit || hit.Distance < best.Distance) {
			best = hit
		}
	}
	return best
}
