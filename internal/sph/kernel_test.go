package sph_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/sph"
)

type radialKernel interface {
	Value(d float64) float64
	FirstDerivative(d float64) float64
	SecondDerivative(d float64) float64
}

// integrate sums w over a disc (dim 2) or ball (dim 3) of radius h.
func integrate(k radialKernel, h float64, dim int) float64 {
	const steps = 20000
	dr := h / steps
	sum := 0.0
	for i := 0; i < steps; i++ {
		r := (float64(i) + 0.5) * dr
		shell := 2 * math.Pi * r
		if dim == 3 {
			shell = 4 * math.Pi * r * r
		}
		sum += k.Value(r) * shell * dr
	}
	return sum
}

var _ = Describe("Kernels", func() {
	const h = 0.18

	kernels := []struct {
		name string
		k    radialKernel
		dim  int
	}{
		{"StdKernel3", sph.NewStdKernel3(h), 3},
		{"SpikyKernel3", sph.NewSpikyKernel3(h), 3},
		{"StdKernel2", sph.NewStdKernel2(h), 2},
		{"SpikyKernel2", sph.NewSpikyKernel2(h), 2},
	}

	for _, tc := range kernels {
		tc := tc
		Context(tc.name, func() {
			It("integrates to one over its support", func() {
				Expect(integrate(tc.k, h, tc.dim)).To(BeNumerically("~", 1, 1e-4))
			})

			It("vanishes at and beyond the radius", func() {
				Expect(tc.k.Value(h)).To(BeZero())
				Expect(tc.k.Value(2 * h)).To(BeZero())
				Expect(tc.k.FirstDerivative(h)).To(BeZero())
				Expect(tc.k.SecondDerivative(1.5 * h)).To(BeZero())
			})

			It("has derivatives matching finite differences", func() {
				const eps = 1e-7
				for _, d := range []float64{0.2 * h, 0.5 * h, 0.8 * h} {
					fd := (tc.k.Value(d+eps) - tc.k.Value(d-eps)) / (2 * eps)
					Expect(tc.k.FirstDerivative(d)).To(BeNumerically("~", fd, 1e-3*math.Abs(fd)+1e-6))
					fd2 := (tc.k.FirstDerivative(d+eps) - tc.k.FirstDerivative(d-eps)) / (2 * eps)
					Expect(tc.k.SecondDerivative(d)).To(BeNumerically("~", fd2, 1e-3*math.Abs(fd2)+1e-3))
				}
			})

			It("decreases away from the center", func() {
				Expect(tc.k.Value(0)).To(BeNumerically(">", tc.k.Value(0.5*h)))
				Expect(tc.k.FirstDerivative(0.5 * h)).To(BeNumerically("<", 0))
			})
		})
	}

	It("is zero everywhere for a zero radius", func() {
		Expect(sph.NewStdKernel3(0).Value(0)).To(BeZero())
		Expect(sph.NewSpikyKernel3(0).Value(0)).To(BeZero())
		Expect(sph.NewStdKernel2(0).Value(0)).To(BeZero())
		Expect(sph.NewSpikyKernel2(0).FirstDerivative(0)).To(BeZero())
		Expect(sph.NewSpikyKernel3(0).Gradient(r3.Vec{X: 1})).To(Equal(r3.Vec{}))
	})

	It("points gradients along the offset", func() {
		k := sph.NewSpikyKernel3(h)
		g := k.Gradient(r3.Vec{X: 0.05})
		Expect(g.X).To(BeNumerically(">", 0))
		Expect(g.Y).To(BeZero())
		Expect(g.X).To(BeNumerically("~", -k.FirstDerivative(0.05), 1e-9))
		Expect(k.Gradient(r3.Vec{})).To(Equal(r3.Vec{}))

		k2 := sph.NewSpikyKernel2(h)
		g2 := k2.GradientAt(0.05, r2.Vec{Y: 1})
		Expect(g2.Y).To(BeNumerically("~", -k2.FirstDerivative(0.05), 1e-9))
	})
})
