package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Index2 is an integer cell coordinate on a 2D lattice.
type Index2 struct{ X, Y int }

// Index3 is an integer cell coordinate on a 3D lattice.
type Index3 struct{ X, Y, Z int }

// Size2 is a positive 2D grid resolution.
type Size2 struct{ X, Y int }

// Size3 is a positive 3D grid resolution.
type Size3 struct{ X, Y, Z int }

// NewSize2 panics unless both components are positive.
func NewSize2(x, y int) Size2 {
	if x <= 0 || y <= 0 {
		panic(fmt.Sprintf("geom: invalid 2D resolution (%d, %d)", x, y))
	}
	return Size2{x, y}
}

// NewSize3 panics unless every component is positive.
func NewSize3(x, y, z int) Size3 {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("geom: invalid 3D resolution (%d, %d, %d)", x, y, z))
	}
	return Size3{x, y, z}
}

func (s Size2) Count() int { return s.X * s.Y }
func (s Size3) Count() int { return s.X * s.Y * s.Z }

// Floor2 returns the lattice cell containing p for cells of edge spacing.
func Floor2(p r2.Vec, spacing float64) Index2 {
	return Index2{
		X: int(math.Floor(p.X / spacing)),
		Y: int(math.Floor(p.Y / spacing)),
	}
}

// Floor3 returns the lattice cell containing p for cells of edge spacing.
func Floor3(p r3.Vec, spacing float64) Index3 {
	return Index3{
		X: int(math.Floor(p.X / spacing)),
		Y: int(math.Floor(p.Y / spacing)),
		Z: int(math.Floor(p.Z / spacing)),
	}
}

// Unit2 is r2.Unit with the zero vector mapped to itself instead of NaN.
func Unit2(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// Unit3 is r3.Unit with the zero vector mapped to itself instead of NaN.
func Unit3(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// Tangentials3 returns two unit vectors orthogonal to v and to each other.
func Tangentials3(v r3.Vec) (r3.Vec, r3.Vec) {
	axis := r3.Vec{X: 1}
	if v.Y == 0 && v.Z == 0 {
		axis = r3.Vec{Y: 1}
	}
	a := Unit3(r3.Cross(axis, v))
	b := r3.Cross(v, a)
	return a, b
}

// Rotate2 rotates v counter-clockwise by angle radians.
func Rotate2(v r2.Vec, angle float64) r2.Vec {
	s, c := math.Sincos(angle)
	return r2.Vec{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y}
}

// Cross2 is the z component of the 3D cross product of a and b.
func Cross2(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Distance2Sq is the squared distance between two 2D points.
func Distance2Sq(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// Distance3Sq is the squared distance between two 3D points.
func Distance3Sq(a, b r3.Vec) float64 {
	return r3.Norm2(r3.Sub(a, b))
}

// IsFinite3 reports whether no component is NaN or infinite.
func IsFinite3(v r3.Vec) bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
}

// IsFinite2 reports whether no component is NaN or infinite.
func IsFinite2(v r2.Vec) bool {
	return !math.IsNaN(v.X+v.Y) && !math.IsInf(v.X+v.Y, 0)
}

func toMgl(v r3.Vec) mgl64.Vec3   { return mgl64.Vec3{v.X, v.Y, v.Z} }
func fromMgl(v mgl64.Vec3) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Clamp3 clamps p component-wise into the box.
func Clamp3(p r3.Vec, b r3.Box) r3.Vec {
	return r3.Vec{
		X: math.Max(b.Min.X, math.Min(p.X, b.Max.X)),
		Y: math.Max(b.Min.Y, math.Min(p.Y, b.Max.Y)),
		Z: math.Max(b.Min.Z, math.Min(p.Z, b.Max.Z)),
	}
}

// Clamp2 clamps p component-wise into the box.
func Clamp2(p r2.Vec, b r2.Box) r2.Vec {
	return r2.Vec{
		X: math.Max(b.Min.X, math.Min(p.X, b.Max.X)),
		Y: math.Max(b.Min.Y, math.Min(p.Y, b.Max.Y)),
	}
}

// BoxContains3 reports whether p lies inside b, boundary included.
func BoxContains3(b r3.Box, p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// BoxContains2 reports whether p lies inside b, boundary included.
func BoxContains2(b r2.Box, p r2.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Union3 returns the smallest box containing a and b.
func Union3(a, b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y), Z: math.Min(a.Min.Z, b.Min.Z)},
		Max: r3.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y), Z: math.Max(a.Max.Z, b.Max.Z)},
	}
}

// Union2 returns the smallest box containing a and b.
func Union2(a, b r2.Box) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: r2.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}

// Intersect3 returns the overlap of a and b. The result has Min > Max on
// some axis when they are disjoint.
func Intersect3(a, b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: math.Max(a.Min.X, b.Min.X), Y: math.Max(a.Min.Y, b.Min.Y), Z: math.Max(a.Min.Z, b.Min.Z)},
		Max: r3.Vec{X: math.Min(a.Max.X, b.Max.X), Y: math.Min(a.Max.Y, b.Max.Y), Z: math.Min(a.Max.Z, b.Max.Z)},
	}
}

func Intersect2(a, b r2.Box) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: math.Max(a.Min.X, b.Min.X), Y: math.Max(a.Min.Y, b.Min.Y)},
		Max: r2.Vec{X: math.Min(a.Max.X, b.Max.X), Y: math.Min(a.Max.Y, b.Max.Y)},
	}
}

// EmptyBox3 is the identity element of Union3.
func EmptyBox3() r3.Box {
	inf := math.Inf(1)
	return r3.Box{Min: r3.Vec{X: inf, Y: inf, Z: inf}, Max: r3.Vec{X: -inf, Y: -inf, Z: -inf}}
}

// EmptyBox2 is the identity element of Union2.
func EmptyBox2() r2.Box {
	inf := math.Inf(1)
	return r2.Box{Min: r2.Vec{X: inf, Y: inf}, Max: r2.Vec{X: -inf, Y: -inf}}
}
