// Package sph implements smoothed particle hydrodynamics on top of the
// particles package: kernels, fluid particle data and the solver.
package sph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kernels are immutable and cheap to copy. Every kernel is zero for
// distances at or beyond its radius, so a zero-radius kernel is zero
// everywhere.

// StdKernel3 is the 3D poly6 kernel, used for density estimation.
type StdKernel3 struct {
	H              float64
	h2, h3, h4, h5 float64
}

func NewStdKernel3(h float64) StdKernel3 {
	h2 := h * h
	return StdKernel3{H: h, h2: h2, h3: h2 * h, h4: h2 * h2, h5: h2 * h2 * h}
}

func (k StdKernel3) Value(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d*d/k.h2
	return 315 / (64 * math.Pi * k.h3) * x * x * x
}

func (k StdKernel3) FirstDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d*d/k.h2
	return -945 / (32 * math.Pi * k.h5) * d * x * x
}

func (k StdKernel3) SecondDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := d * d / k.h2
	return 945 / (32 * math.Pi * k.h5) * (1 - x) * (5*x - 1)
}

// Gradient is the kernel gradient at p relative to the kernel center.
func (k StdKernel3) Gradient(p r3.Vec) r3.Vec {
	d := r3.Norm(p)
	if d > 0 {
		return k.GradientAt(d, r3.Scale(1/d, p))
	}
	return r3.Vec{}
}

// GradientAt is the gradient at distance d along the unit vector dir.
func (k StdKernel3) GradientAt(d float64, dir r3.Vec) r3.Vec {
	return r3.Scale(-k.FirstDerivative(d), dir)
}

// SpikyKernel3 has a gradient that stays sharp near the center, which
// keeps pressure forces from vanishing for close particles.
type SpikyKernel3 struct {
	H              float64
	h2, h3, h4, h5 float64
}

func NewSpikyKernel3(h float64) SpikyKernel3 {
	h2 := h * h
	return SpikyKernel3{H: h, h2: h2, h3: h2 * h, h4: h2 * h2, h5: h2 * h2 * h}
}

func (k SpikyKernel3) Value(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d/k.H
	return 15 / (math.Pi * k.h3) * x * x * x
}

func (k SpikyKernel3) FirstDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d/k.H
	return -45 / (math.Pi * k.h4) * x * x
}

func (k SpikyKernel3) SecondDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d/k.H
	return 90 / (math.Pi * k.h5) * x
}

func (k SpikyKernel3) Gradient(p r3.Vec) r3.Vec {
	d := r3.Norm(p)
	if d > 0 {
		return k.GradientAt(d, r3.Scale(1/d, p))
	}
	return r3.Vec{}
}

func (k SpikyKernel3) GradientAt(d float64, dir r3.Vec) r3.Vec {
	return r3.Scale(-k.FirstDerivative(d), dir)
}

// StdKernel2 is the 2D poly6 kernel.
type StdKernel2 struct {
	H          float64
	h2, h3, h4 float64
}

func NewStdKernel2(h float64) StdKernel2 {
	h2 := h * h
	return StdKernel2{H: h, h2: h2, h3: h2 * h, h4: h2 * h2}
}

func (k StdKernel2) Value(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d*d/k.h2
	return 4 / (math.Pi * k.h2) * x * x * x
}

func (k StdKernel2) FirstDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d*d/k.h2
	return -24 / (math.Pi * k.h4) * d * x * x
}

func (k StdKernel2) SecondDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := d * d / k.h2
	return 24 / (math.Pi * k.h4) * (1 - x) * (5*x - 1)
}

func (k StdKernel2) Gradient(p r2.Vec) r2.Vec {
	d := r2.Norm(p)
	if d > 0 {
		return k.GradientAt(d, r2.Scale(1/d, p))
	}
	return r2.Vec{}
}

func (k StdKernel2) GradientAt(d float64, dir r2.Vec) r2.Vec {
	return r2.Scale(-k.FirstDerivative(d), dir)
}

// SpikyKernel2 is the 2D spiky kernel.
type SpikyKernel2 struct {
	H          float64
	h2, h3, h4 float64
}

func NewSpikyKernel2(h float64) SpikyKernel2 {
	h2 := h * h
	return SpikyKernel2{H: h, h2: h2, h3: h2 * h, h4: h2 * h2}
}

func (k SpikyKernel2) Value(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d/k.H
	return 10 / (math.Pi * k.h2) * x * x * x
}

func (k SpikyKernel2) FirstDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d/k.H
	return -30 / (math.Pi * k.h3) * x * x
}

func (k SpikyKernel2) SecondDerivative(d float64) float64 {
	if d >= k.H {
		return 0
	}
	x := 1 - d/k.H
	return 60 / (math.Pi * k.h4) * x
}

func (k SpikyKernel2) Gradient(p r2.Vec) r2.Vec {
	d := r2.Norm(p)
	if d > 0 {
		return k.GradientAt(d, r2.Scale(1/d, p))
	}
	return r2.Vec{}
}

func (k SpikyKernel2) GradientAt(d float64, dir r2.Vec) r2.Vec {
	return r2.Scale(-k.FirstDerivative(d), dir)
}
