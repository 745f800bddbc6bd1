package sph

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/numeric"
	"github.com/san-kum/jetsim/internal/parallel"
	"github.com/san-kum/jetsim/internal/particles"
)

// Solver3 is a weakly compressible SPH solver for 3D fluids. Pressure
// comes from a stiff equation of state, so the sub-step size is bounded
// by the speed of sound and the strongest force.
type Solver3 struct {
	*particles.Solver3
	params

	data *SystemData3
}

// NewSolver3 returns a solver over an empty fluid configured by opts.
// Adaptive sub-stepping is enabled.
func NewSolver3(opts Options) *Solver3 {
	opts = opts.withDefaults()
	data := NewSystemData3(0)
	data.SetTargetDensity(opts.TargetDensity)
	data.SetRelativeKernelRadius(opts.RelativeKernelRadius)
	data.SetTargetSpacing(opts.TargetSpacing)

	s := &Solver3{
		Solver3: particles.NewSolver3(data.SystemData3),
		data:    data,
	}
	s.apply(opts)
	s.SetHooks(hooks3{s})
	s.SetIsUsingFixedSubTimeSteps(false)
	return s
}

// SPHSystemData returns the fluid particles advanced by s.
func (s *Solver3) SPHSystemData() *SystemData3 { return s.data }

// NumberOfSubTimeSteps splits dt so each sub-step stays under the
// speed-of-sound and force limits.
func (s *Solver3) NumberOfSubTimeSteps(dt float64) int {
	forces := s.data.Forces()
	maxForce := 0.0
	for _, f := range forces {
		maxForce = max(maxForce, r3.Norm(f))
	}
	return s.subTimeSteps(dt, s.data.KernelRadius(), s.data.Mass(), maxForce)
}

func (s *Solver3) computePressure() {
	rho, p := s.data.Densities(), s.data.Pressures()
	target := s.data.TargetDensity()
	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		p[i] = s.pressure(rho[i], target)
	})
}

func (s *Solver3) accumulatePressureForce() {
	pos, rho, p := s.data.Positions(), s.data.Densities(), s.data.Pressures()
	forces := s.data.Forces()
	neighbors := s.data.NeighborLists()
	massSquared := numeric.Square(s.data.Mass())
	kernel := NewSpikyKernel3(s.data.KernelRadius())

	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		for _, j := range neighbors[i] {
			d := r3.Sub(pos[j], pos[i])
			dist := r3.Norm(d)
			if dist > 0 {
				dir := r3.Scale(1/dist, d)
				c := massSquared * (p[i]/(rho[i]*rho[i]) + p[j]/(rho[j]*rho[j]))
				forces[i] = r3.Sub(forces[i], r3.Scale(c, kernel.GradientAt(dist, dir)))
			}
		}
	})
}

func (s *Solver3) accumulateViscosityForce() {
	pos, vel, rho := s.data.Positions(), s.data.Velocities(), s.data.Densities()
	forces := s.data.Forces()
	neighbors := s.data.NeighborLists()
	massSquared := numeric.Square(s.data.Mass())
	kernel := NewStdKernel3(s.data.KernelRadius())

	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		for _, j := range neighbors[i] {
			dist := r3.Norm(r3.Sub(pos[i], pos[j]))
			c := s.viscosity * massSquared / rho[j] * kernel.SecondDerivative(dist)
			forces[i] = r3.Add(forces[i], r3.Scale(c, r3.Sub(vel[j], vel[i])))
		}
	})
}

// computePseudoViscosity blends each candidate velocity toward the
// kernel-weighted average of its neighborhood.
func (s *Solver3) computePseudoViscosity(dt float64) {
	n := s.data.NumberOfParticles()
	pos, rho := s.data.Positions(), s.data.Densities()
	vel := s.NewVelocities()
	neighbors := s.data.NeighborLists()
	mass := s.data.Mass()
	kernel := NewSpikyKernel3(s.data.KernelRadius())

	smoothed := make([]r3.Vec, n)
	parallel.For(0, n, func(i int) {
		weightSum := mass / rho[i]
		sum := r3.Scale(weightSum, vel[i])
		for _, j := range neighbors[i] {
			w := mass / rho[j] * kernel.Value(r3.Norm(r3.Sub(pos[i], pos[j])))
			weightSum += w
			sum = r3.Add(sum, r3.Scale(w, vel[j]))
		}
		if weightSum > 0 {
			sum = r3.Scale(1/weightSum, sum)
		}
		smoothed[i] = sum
	})

	factor := numeric.Clamp(dt*s.pseudoViscosity, 0, 1)
	parallel.For(0, n, func(i int) {
		vel[i] = r3.Add(r3.Scale(1-factor, vel[i]), r3.Scale(factor, smoothed[i]))
	})
}

func (s *Solver3) maxDensity() float64 {
	m := 0.0
	for _, rho := range s.data.Densities() {
		m = max(m, rho)
	}
	return m
}

// hooks3 plugs the SPH passes into the particle solver's sub-step.
type hooks3 struct{ s *Solver3 }

func (h hooks3) BeginAdvanceTimeStep(float64) {
	d := h.s.data
	d.BuildNeighborSearcher()
	d.BuildNeighborLists()
	d.UpdateDensities()
}

func (h hooks3) AccumulateForces(float64) {
	h.s.computePressure()
	h.s.accumulatePressureForce()
	h.s.accumulateViscosityForce()
}

func (h hooks3) VelocityIntegrated(dt float64) { h.s.computePseudoViscosity(dt) }

func (h hooks3) EndAdvanceTimeStep(dt float64) {
	if log := h.s.Logger().V(1); log.Enabled() {
		log.Info("sub-step advanced", "dt", dt,
			"particles", h.s.data.NumberOfParticles(), "maxDensity", h.s.maxDensity())
	}
}

func (h hooks3) NumberOfSubTimeSteps(dt float64) int { return h.s.NumberOfSubTimeSteps(dt) }
