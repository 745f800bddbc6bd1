package particles

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/collider"
	"github.com/san-kum/jetsim/internal/numeric"
	"github.com/san-kum/jetsim/internal/parallel"
)

// Emitter2 is the 2D counterpart of Emitter3.
type Emitter2 interface {
	SetTarget(d *SystemData2)
	Update(t, dt float64)
}

// Hooks2 is the 2D counterpart of Hooks3.
type Hooks2 interface {
	// BeginAdvanceTimeStep runs after the collider and emitter updates.
	BeginAdvanceTimeStep(dt float64)
	// AccumulateForces adds to the forces after gravity and drag.
	AccumulateForces(dt float64)
	// VelocityIntegrated may adjust NewVelocities before positions move.
	VelocityIntegrated(dt float64)
	// EndAdvanceTimeStep runs after the new state has been committed.
	EndAdvanceTimeStep(dt float64)
}

// Solver2 advances a 2D particle system with semi-implicit Euler steps.
type Solver2 struct {
	*anim.PhysicsAnimation

	data        *SystemData2
	gravity     r2.Vec
	drag        float64
	restitution float64
	collider    collider.Collider2
	emitter     Emitter2
	hooks       Hooks2

	newPositions  []r2.Vec
	newVelocities []r2.Vec
}

// NewSolver2 wraps data, or an empty system when data is nil.
func NewSolver2(data *SystemData2) *Solver2 {
	if data == nil {
		data = NewSystemData2(0)
	}
	s := &Solver2{
		data:    data,
		gravity: r2.Vec{Y: DefaultGravity},
		drag:    DefaultDragCoefficient,
	}
	s.PhysicsAnimation = anim.NewPhysicsAnimation(s)
	return s
}

func (s *Solver2) Data() *SystemData2 { return s.data }

func (s *Solver2) Gravity() r2.Vec { return s.gravity }

func (s *Solver2) SetGravity(g r2.Vec) { s.gravity = g }

func (s *Solver2) DragCoefficient() float64 { return s.drag }

// SetDragCoefficient clamps c to be non-negative.
func (s *Solver2) SetDragCoefficient(c float64) { s.drag = numeric.AtLeast(c, 0) }

func (s *Solver2) RestitutionCoefficient() float64 { return s.restitution }

// SetRestitutionCoefficient clamps c to [0, 1].
func (s *Solver2) SetRestitutionCoefficient(c float64) {
	s.restitution = numeric.Clamp(c, 0, 1)
}

func (s *Solver2) Collider() collider.Collider2 { return s.collider }

func (s *Solver2) SetCollider(c collider.Collider2) { s.collider = c }

func (s *Solver2) Emitter() Emitter2 { return s.emitter }

// SetEmitter attaches e and points it at this solver's particles.
func (s *Solver2) SetEmitter(e Emitter2) {
	s.emitter = e
	if e != nil {
		e.SetTarget(s.data)
	}
}

func (s *Solver2) SetHooks(h Hooks2) { s.hooks = h }

// NewPositions are the candidate positions of the sub-step in progress.
func (s *Solver2) NewPositions() []r2.Vec { return s.newPositions }

// NewVelocities are the candidate velocities of the sub-step in progress.
func (s *Solver2) NewVelocities() []r2.Vec { return s.newVelocities }

func (s *Solver2) Initialize() {
	s.updateCollider(0)
	s.updateEmitter(0)
}

func (s *Solver2) NumberOfSubTimeSteps(dt float64) int {
	if c, ok := s.hooks.(SubStepCounter); ok {
		return c.NumberOfSubTimeSteps(dt)
	}
	return 1
}

func (s *Solver2) CheckState() error { return s.data.CheckState() }

func (s *Solver2) AdvanceSubTimeStep(dt float64) {
	s.beginAdvanceTimeStep(dt)
	s.accumulateForces(dt)
	s.timeIntegration(dt)
	s.resolveCollision()
	s.endAdvanceTimeStep(dt)
}

func (s *Solver2) beginAdvanceTimeStep(dt float64) {
	s.updateCollider(dt)
	s.updateEmitter(dt)

	n := s.data.NumberOfParticles()
	clear(s.data.Forces())
	s.newPositions = resizeFill(s.newPositions, n, r2.Vec{})
	s.newVelocities = resizeFill(s.newVelocities, n, r2.Vec{})

	if s.hooks != nil {
		s.hooks.BeginAdvanceTimeStep(dt)
	}
}

func (s *Solver2) accumulateForces(dt float64) {
	mass := s.data.Mass()
	g := r2.Scale(mass, s.gravity)
	vel, forces := s.data.Velocities(), s.data.Forces()
	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		drag := r2.Scale(-s.drag, vel[i])
		forces[i] = r2.Add(forces[i], r2.Add(g, drag))
	})

	if s.hooks != nil {
		s.hooks.AccumulateForces(dt)
	}
}

func (s *Solver2) timeIntegration(dt float64) {
	n := s.data.NumberOfParticles()
	mass := s.data.Mass()
	pos, vel, forces := s.data.Positions(), s.data.Velocities(), s.data.Forces()

	parallel.For(0, n, func(i int) {
		s.newVelocities[i] = r2.Add(vel[i], r2.Scale(dt/mass, forces[i]))
	})
	if s.hooks != nil {
		s.hooks.VelocityIntegrated(dt)
	}
	parallel.For(0, n, func(i int) {
		s.newPositions[i] = r2.Add(pos[i], r2.Scale(dt, s.newVelocities[i]))
	})
}

func (s *Solver2) resolveCollision() {
	if s.collider == nil {
		return
	}
	radius := s.data.Radius()
	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		s.newPositions[i], s.newVelocities[i] = s.collider.ResolveCollision(
			radius, s.restitution, s.newPositions[i], s.newVelocities[i])
	})
}

func (s *Solver2) endAdvanceTimeStep(dt float64) {
	copy(s.data.Positions(), s.newPositions)
	copy(s.data.Velocities(), s.newVelocities)

	if s.hooks != nil {
		s.hooks.EndAdvanceTimeStep(dt)
	}
}

func (s *Solver2) updateCollider(dt float64) {
	if s.collider != nil {
		s.collider.Update(s.CurrentTimeInSeconds(), dt)
	}
}

func (s *Solver2) updateEmitter(dt float64) {
	if s.emitter != nil {
		s.emitter.Update(s.CurrentTimeInSeconds(), dt)
	}
}
