package sph_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/collider"
	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/sph"
)

var _ = Describe("Solver3", func() {
	var s *sph.Solver3

	BeforeEach(func() {
		s = sph.NewSolver3(sph.DefaultOptions())
	})

	It("uses the documented defaults", func() {
		Expect(s.EOSExponent()).To(Equal(7.0))
		Expect(s.NegativePressureScale()).To(BeZero())
		Expect(s.PseudoViscosityCoefficient()).To(Equal(10.0))
		Expect(s.SpeedOfSound()).To(Equal(100.0))
		Expect(s.TimeStepLimitScale()).To(Equal(1.0))
		Expect(s.IsUsingFixedSubTimeSteps()).To(BeFalse())
		Expect(s.SPHSystemData()).NotTo(BeNil())
		Expect(s.SPHSystemData().NumberOfParticles()).To(BeZero())
	})

	It("clamps its tunables", func() {
		s.SetEOSExponent(0.5)
		Expect(s.EOSExponent()).To(Equal(1.0))
		s.SetNegativePressureScale(-1)
		Expect(s.NegativePressureScale()).To(BeZero())
		s.SetNegativePressureScale(2)
		Expect(s.NegativePressureScale()).To(Equal(1.0))
		s.SetViscosityCoefficient(-1)
		Expect(s.ViscosityCoefficient()).To(BeZero())
		s.SetPseudoViscosityCoefficient(-3)
		Expect(s.PseudoViscosityCoefficient()).To(BeZero())
		s.SetSpeedOfSound(-5)
		Expect(s.SpeedOfSound()).To(Equal(sph.DefaultSpeedOfSound))
		s.SetSpeedOfSound(math.NaN())
		Expect(s.SpeedOfSound()).To(Equal(sph.DefaultSpeedOfSound))
		s.SetTimeStepLimitScale(-1)
		Expect(s.TimeStepLimitScale()).To(BeZero())
	})

	It("clamps NaN tunables to their bounds", func() {
		nan := math.NaN()
		s.SetEOSExponent(nan)
		Expect(s.EOSExponent()).To(Equal(1.0))
		s.SetNegativePressureScale(nan)
		Expect(s.NegativePressureScale()).To(BeZero())
		s.SetViscosityCoefficient(nan)
		Expect(s.ViscosityCoefficient()).To(BeZero())
		s.SetPseudoViscosityCoefficient(nan)
		Expect(s.PseudoViscosityCoefficient()).To(BeZero())
		s.SetTimeStepLimitScale(nan)
		Expect(s.TimeStepLimitScale()).To(BeZero())
		s.SetDragCoefficient(nan)
		Expect(s.DragCoefficient()).To(BeZero())
		s.SetRestitutionCoefficient(nan)
		Expect(s.RestitutionCoefficient()).To(BeZero())
	})

	DescribeTable("equation of state",
		func(density, scale, want float64) {
			s.SetNegativePressureScale(scale)
			Expect(s.Pressure(density, 1000)).To(BeNumerically("~", want, 1e-6*math.Max(1, math.Abs(want))))
		},
		Entry("at rest", 1000.0, 0.0, 0.0),
		Entry("compressed", 1100.0, 0.0, 1000*100*100/7.0*(math.Pow(1.1, 7)-1)),
		Entry("expanded without attraction", 900.0, 0.0, 0.0),
		Entry("expanded at half scale", 900.0, 0.5, 0.5*1000*100*100/7.0*(math.Pow(0.9, 7)-1)),
		Entry("expanded at full scale", 900.0, 1.0, 1000*100*100/7.0*(math.Pow(0.9, 7)-1)),
	)

	It("uses the exponent and speed of sound in the equation of state", func() {
		s.SetEOSExponent(1)
		s.SetSpeedOfSound(10)
		Expect(s.Pressure(1200, 1000)).To(BeNumerically("~", 1000*10*10*0.2, 1e-6))
	})

	It("applies options through the same clamps", func() {
		opts := sph.DefaultOptions()
		opts.EOSExponent = 0
		opts.SpeedOfSound = 0
		opts.TargetSpacing = 0.05
		s := sph.NewSolver3(opts)
		Expect(s.EOSExponent()).To(Equal(1.0))
		Expect(s.SpeedOfSound()).To(Equal(sph.DefaultSpeedOfSound))
		Expect(s.SPHSystemData().TargetSpacing()).To(Equal(0.05))
		Expect(s.SPHSystemData().KernelRadius()).To(BeNumerically("~", 0.09, 1e-12))
	})

	Describe("NumberOfSubTimeSteps", func() {
		It("is bounded by the speed of sound when there is no force", func() {
			// 0.4 * 0.18 / 100 = 7.2e-4 per sub-step.
			Expect(s.NumberOfSubTimeSteps(0.01)).To(Equal(14))
		})

		It("takes more sub-steps for a faster speed of sound", func() {
			s.SetSpeedOfSound(1000)
			Expect(s.NumberOfSubTimeSteps(0.01)).To(Equal(139))
		})

		It("falls back to a single step when the limit scale is zero", func() {
			s.SetTimeStepLimitScale(0)
			Expect(s.NumberOfSubTimeSteps(0.01)).To(Equal(1))
		})

		It("takes more sub-steps under a large force", func() {
			d := s.SPHSystemData()
			d.AddParticle(r3.Vec{}, r3.Vec{}, r3.Vec{Y: 1e6})
			Expect(s.NumberOfSubTimeSteps(0.01)).To(BeNumerically(">", 14))
		})
	})

	It("drops a fluid block onto a floor without tunneling", func() {
		d := s.SPHSystemData()
		fillBcc(d, r3.Box{
			Min: r3.Vec{X: 0, Y: 0.1, Z: 0},
			Max: r3.Vec{X: 0.3, Y: 0.4, Z: 0.3},
		}, d.TargetSpacing())
		n := d.NumberOfParticles()

		floor := geom.NewSurface3(&geom.Plane3{Normal: r3.Vec{Y: 1}}, geom.Identity3())
		s.SetCollider(collider.NewRigidBodyCollider3(floor))
		s.SetValidateState(true)

		frame := anim.NewFrame(0, 1.0/60)
		for ; frame.Index < 5; frame.Advance() {
			Expect(s.Update(frame)).To(Succeed())
		}
		Expect(d.NumberOfParticles()).To(Equal(n))
		for _, p := range d.Positions() {
			Expect(p.Y).To(BeNumerically(">=", d.Radius()-1e-9))
		}
		Expect(maxOf(d.Densities())).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Solver2", func() {
	It("is a no-op on an empty system", func() {
		s := sph.NewSolver2(sph.DefaultOptions())
		frame := anim.NewFrame(1, 0.01)
		Expect(s.Update(frame)).To(Succeed())
		Expect(s.Update(frame)).To(Succeed())
		Expect(s.SPHSystemData().NumberOfParticles()).To(BeZero())
		Expect(s.CurrentFrameIndex()).To(Equal(int64(1)))
	})

	It("pushes a compressed cluster apart", func() {
		s := sph.NewSolver2(sph.DefaultOptions())
		s.SetGravity(r2.Vec{})
		d := s.SPHSystemData()
		fillTriangle(d, r2.Box{Max: r2.Vec{X: 0.3, Y: 0.3}}, 0.8*d.TargetSpacing())

		spread := func() float64 {
			var c r2.Vec
			pos := d.Positions()
			for _, p := range pos {
				c = r2.Add(c, p)
			}
			c = r2.Scale(1/float64(len(pos)), c)
			sum := 0.0
			for _, p := range pos {
				sum += r2.Norm(r2.Sub(p, c))
			}
			return sum / float64(len(pos))
		}
		before := spread()

		Expect(s.Update(anim.NewFrame(0, 1e-4))).To(Succeed())
		Expect(d.Pressures()).To(ContainElement(BeNumerically(">", 0)))
		Expect(spread()).To(BeNumerically(">", before))
	})

	It("smooths velocities toward the neighborhood average", func() {
		opts := sph.DefaultOptions()
		opts.PseudoViscosityCoefficient = 50
		opts.ViscosityCoefficient = 0
		s := sph.NewSolver2(opts)
		s.SetGravity(r2.Vec{})
		s.SetDragCoefficient(0)
		d := s.SPHSystemData()
		d.AddParticle(r2.Vec{}, r2.Vec{X: 1}, r2.Vec{})
		d.AddParticle(r2.Vec{X: 0.05}, r2.Vec{X: -1}, r2.Vec{})

		Expect(s.Update(anim.NewFrame(0, 1e-3))).To(Succeed())
		v := d.Velocities()
		Expect(math.Abs(v[0].X)).To(BeNumerically("<", 1))
		Expect(math.Abs(v[1].X)).To(BeNumerically("<", 1))
		Expect(v[0].X + v[1].X).To(BeNumerically("~", 0, 1e-9))
	})
})
