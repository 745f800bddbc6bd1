package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Ray3 is a half line starting at Origin. Direction is expected to be unit length.
type Ray3 struct {
	Origin    r3.Vec
	Direction r3.Vec
}

func (r Ray3) PointAt(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}

// Ray2 is a half line starting at Origin. Direction is expected to be unit length.
type Ray2 struct {
	Origin    r2.Vec
	Direction r2.Vec
}

func (r Ray2) PointAt(t float64) r2.Vec {
	return r2.Add(r.Origin, r2.Scale(t, r.Direction))
}

// Intersection3 is the result of a closest ray/surface intersection query.
type Intersection3 struct {
	IsHit    bool
	Distance float64
	Point    r3.Vec
	Normal   r3.Vec
}

// Intersection2 is the result of a closest ray/surface intersection query.
type Intersection2 struct {
	IsHit    bool
	Distance float64
	Point    r2.Vec
	Normal   r2.Vec
}
