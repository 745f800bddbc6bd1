package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform3 is a rigid transform: rotate by Orientation, then translate.
type Transform3 struct {
	Translation r3.Vec
	Orientation mgl64.Quat
}

// Identity3 returns the transform that maps every point to itself.
func Identity3() Transform3 {
	return Transform3{Orientation: mgl64.QuatIdent()}
}

// Translate3 returns a pure translation.
func Translate3(t r3.Vec) Transform3 {
	return Transform3{Translation: t, Orientation: mgl64.QuatIdent()}
}

// NewTransform3 builds a transform rotating angle radians around axis.
func NewTransform3(translation r3.Vec, angle float64, axis r3.Vec) Transform3 {
	return Transform3{
		Translation: translation,
		Orientation: mgl64.QuatRotate(angle, toMgl(Unit3(axis))),
	}
}

func (t Transform3) orientation() mgl64.Quat {
	// The zero Quat is not a rotation; treat it as identity so a zero
	// Transform3 value is usable.
	if t.Orientation.W == 0 && t.Orientation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return t.Orientation
}

func (t Transform3) ToLocal(p r3.Vec) r3.Vec {
	return t.ToLocalDirection(r3.Sub(p, t.Translation))
}

func (t Transform3) ToLocalDirection(d r3.Vec) r3.Vec {
	return fromMgl(t.orientation().Inverse().Rotate(toMgl(d)))
}

func (t Transform3) ToWorld(p r3.Vec) r3.Vec {
	return r3.Add(t.ToWorldDirection(p), t.Translation)
}

func (t Transform3) ToWorldDirection(d r3.Vec) r3.Vec {
	return fromMgl(t.orientation().Rotate(toMgl(d)))
}

func (t Transform3) ToLocalRay(r Ray3) Ray3 {
	return Ray3{Origin: t.ToLocal(r.Origin), Direction: t.ToLocalDirection(r.Direction)}
}

// ToWorldBox returns the world-space box enclosing the transformed corners of b.
func (t Transform3) ToWorldBox(b r3.Box) r3.Box {
	if isUnbounded3(b) {
		return b
	}
	out := EmptyBox3()
	for i := 0; i < 8; i++ {
		c := r3.Vec{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		w := t.ToWorld(c)
		out = Union3(out, r3.Box{Min: w, Max: w})
	}
	return out
}

func isUnbounded3(b r3.Box) bool {
	return math.IsInf(b.Min.X, 0) || math.IsInf(b.Min.Y, 0) || math.IsInf(b.Min.Z, 0) ||
		math.IsInf(b.Max.X, 0) || math.IsInf(b.Max.Y, 0) || math.IsInf(b.Max.Z, 0)
}

// Transform2 is a rigid transform: rotate by Orientation radians, then translate.
type Transform2 struct {
	Translation r2.Vec
	Orientation float64
}

func (t Transform2) ToLocal(p r2.Vec) r2.Vec {
	return Rotate2(r2.Sub(p, t.Translation), -t.Orientation)
}

func (t Transform2) ToLocalDirection(d r2.Vec) r2.Vec {
	return Rotate2(d, -t.Orientation)
}

func (t Transform2) ToWorld(p r2.Vec) r2.Vec {
	return r2.Add(Rotate2(p, t.Orientation), t.Translation)
}

func (t Transform2) ToWorldDirection(d r2.Vec) r2.Vec {
	return Rotate2(d, t.Orientation)
}

func (t Transform2) ToLocalRay(r Ray2) Ray2 {
	return Ray2{Origin: t.ToLocal(r.Origin), Direction: t.ToLocalDirection(r.Direction)}
}

func (t Transform2) ToWorldBox(b r2.Box) r2.Box {
	if math.IsInf(b.Min.X, 0) || math.IsInf(b.Min.Y, 0) || math.IsInf(b.Max.X, 0) || math.IsInf(b.Max.Y, 0) {
		return b
	}
	out := EmptyBox2()
	for _, c := range []r2.Vec{b.Min, {X: b.Max.X, Y: b.Min.Y}, {X: b.Min.X, Y: b.Max.Y}, b.Max} {
		w := t.ToWorld(c)
		out = Union2(out, r2.Box{Min: w, Max: w})
	}
	return out
}
