package sph

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/jetsim/internal/numeric"
	"github.com/san-kum/jetsim/internal/parallel"
	"github.com/san-kum/jetsim/internal/particles"
)

// Solver2 is a weakly compressible SPH solver for 2D fluids. Pressure
// comes from a stiff equation of state, so the sub-step size is bounded
// by the speed of sound and the strongest force.
type Solver2 struct {
	*particles.Solver2
	params

	data *SystemData2
}

// NewSolver2 returns a solver over an empty fluid configured by opts.
// Adaptive sub-stepping is enabled.
func NewSolver2(opts Options) *Solver2 {
	opts = opts.withDefaults()
	data := NewSystemData2(0)
	data.SetTargetDensity(opts.TargetDensity)
	data.SetRelativeKernelRadius(opts.RelativeKernelRadius)
	data.SetTargetSpacing(opts.TargetSpacing)

	s := &Solver2{
		Solver2: particles.NewSolver2(data.SystemData2),
		data:    data,
	}
	s.apply(opts)
	s.SetHooks(hooks2{s})
	s.SetIsUsingFixedSubTimeSteps(false)
	return s
}

// SPHSystemData returns the fluid particles advanced by s.
func (s *Solver2) SPHSystemData() *SystemData2 { return s.data }

// NumberOfSubTimeSteps splits dt so each sub-step stays under the
// speed-of-sound and force limits.
func (s *Solver2) NumberOfSubTimeSteps(dt float64) int {
	forces := s.data.Forces()
	maxForce := 0.0
	for _, f := range forces {
		maxForce = max(maxForce, r2.Norm(f))
	}
	return s.subTimeSteps(dt, s.data.KernelRadius(), s.data.Mass(), maxForce)
}

func (s *Solver2) computePressure() {
	rho, p := s.data.Densities(), s.data.Pressures()
	target := s.data.TargetDensity()
	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		p[i] = s.pressure(rho[i], target)
	})
}

func (s *Solver2) accumulatePressureForce() {
	pos, rho, p := s.data.Positions(), s.data.Densities(), s.data.Pressures()
	forces := s.data.Forces()
	neighbors := s.data.NeighborLists()
	massSquared := numeric.Square(s.data.Mass())
	kernel := NewSpikyKernel2(s.data.KernelRadius())

	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		for _, j := range neighbors[i] {
			d := r2.Sub(pos[j], pos[i])
			dist := r2.Norm(d)
			if dist > 0 {
				dir := r2.Scale(1/dist, d)
				c := massSquared * (p[i]/(rho[i]*rho[i]) + p[j]/(rho[j]*rho[j]))
				forces[i] = r2.Sub(forces[i], r2.Scale(c, kernel.GradientAt(dist, dir)))
			}
		}
	})
}

func (s *Solver2) accumulateViscosityForce() {
	pos, vel, rho := s.data.Positions(), s.data.Velocities(), s.data.Densities()
	forces := s.data.Forces()
	neighbors := s.data.NeighborLists()
	massSquared := numeric.Square(s.data.Mass())
	kernel := NewStdKernel2(s.data.KernelRadius())

	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		for _, j := range neighbors[i] {
			dist := r2.Norm(r2.Sub(pos[i], pos[j]))
			c := s.viscosity * massSquared / rho[j] * kernel.SecondDerivative(dist)
			forces[i] = r2.Add(forces[i], r2.Scale(c, r2.Sub(vel[j], vel[i])))
		}
	})
}

// computePseudoViscosity blends each candidate velocity toward the
// kernel-weighted average of its neighborhood.
func (s *Solver2) computePseudoViscosity(dt float64) {
	n := s.data.NumberOfParticles()
	pos, rho := s.data.Positions(), s.data.Densities()
	vel := s.NewVelocities()
	neighbors := s.data.NeighborLists()
	mass := s.data.Mass()
	kernel := NewSpikyKernel2(s.data.KernelRadius())

	smoothed := make([]r2.Vec, n)
	parallel.For(0, n, func(i int) {
		weightSum := mass / rho[i]
		sum := r2.Scale(weightSum, vel[i])
		for _, j := range neighbors[i] {
			w := mass / rho[j] * kernel.Value(r2.Norm(r2.Sub(pos[i], pos[j])))
			weightSum += w
			sum = r2.Add(sum, r2.Scale(w, vel[j]))
		}
		if weightSum > 0 {
			sum = r2.Scale(1/weightSum, sum)
		}
		smoothed[i] = sum
	})

	factor := numeric.Clamp(dt*s.pseudoViscosity, 0, 1)
	parallel.For(0, n, func(i int) {
		vel[i] = r2.Add(r2.Scale(1-factor, vel[i]), r2.Scale(factor, smoothed[i]))
	})
}

func (s *Solver2) maxDensity() float64 {
	m := 0.0
	for _, rho := range s.data.Densities() {
		m = max(m, rho)
	}
	return m
}

// hooks2 plugs the SPH passes into the particle solver's sub-step.
type hooks2 struct{ s *Solver2 }

func (h hooks2) BeginAdvanceTimeStep(float64) {
	d := h.s.data
	d.BuildNeighborSearcher()
	d.BuildNeighborLists()
	d.UpdateDensities()
}

func (h hooks2) AccumulateForces(float64) {
	h.s.computePressure()
	h.s.accumulatePressureForce()
	h.s.accumulateViscosityForce()
}

func (h hooks2) VelocityIntegrated(dt float64) { h.s.computePseudoViscosity(dt) }

func (h hooks2) EndAdvanceTimeStep(dt float64) {
	if log := h.s.Logger().V(1); log.Enabled() {
		log.Info("sub-step advanced", "dt", dt,
			"particles", h.s.data.NumberOfParticles(), "maxDensity", h.s.maxDensity())
	}
}

func (h hooks2) NumberOfSubTimeSteps(dt float64) int { return h.s.NumberOfSubTimeSteps(dt) }
