package particles

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/collider"
	"github.com/san-kum/jetsim/internal/numeric"
	"github.com/san-kum/jetsim/internal/parallel"
)

// Emitter3 adds particles to a target system over time.
type Emitter3 interface {
	SetTarget(d *SystemData3)
	Update(t, dt float64)
}

// Hooks3 lets a specialized solver extend every sub-step of Solver3.
type Hooks3 interface {
	// BeginAdvanceTimeStep runs after the collider and emitter updates.
	BeginAdvanceTimeStep(dt float64)
	// AccumulateForces adds to the forces after gravity and drag.
	AccumulateForces(dt float64)
	// VelocityIntegrated may adjust NewVelocities before positions move.
	VelocityIntegrated(dt float64)
	// EndAdvanceTimeStep runs after the new state has been committed.
	EndAdvanceTimeStep(dt float64)
}

// SubStepCounter is an optional Hooks3 extension for adaptive sub-stepping.
type SubStepCounter interface {
	NumberOfSubTimeSteps(dt float64) int
}

// Solver3 advances a 3D particle system with semi-implicit Euler steps.
type Solver3 struct {
	*anim.PhysicsAnimation

	data        *SystemData3
	gravity     r3.Vec
	drag        float64
	restitution float64
	collider    collider.Collider3
	emitter     Emitter3
	hooks       Hooks3

	newPositions  []r3.Vec
	newVelocities []r3.Vec
}

// NewSolver3 wraps data, or an empty system when data is nil.
func NewSolver3(data *SystemData3) *Solver3 {
	if data == nil {
		data = NewSystemData3(0)
	}
	s := &Solver3{
		data:    data,
		gravity: r3.Vec{Y: DefaultGravity},
		drag:    DefaultDragCoefficient,
	}
	s.PhysicsAnimation = anim.NewPhysicsAnimation(s)
	return s
}

func (s *Solver3) Data() *SystemData3 { return s.data }

func (s *Solver3) Gravity() r3.Vec { return s.gravity }

func (s *Solver3) SetGravity(g r3.Vec) { s.gravity = g }

func (s *Solver3) DragCoefficient() float64 { return s.drag }

// SetDragCoefficient clamps c to be non-negative.
func (s *Solver3) SetDragCoefficient(c float64) { s.drag = numeric.AtLeast(c, 0) }

func (s *Solver3) RestitutionCoefficient() float64 { return s.restitution }

// SetRestitutionCoefficient clamps c to [0, 1].
func (s *Solver3) SetRestitutionCoefficient(c float64) {
	s.restitution = numeric.Clamp(c, 0, 1)
}

func (s *Solver3) Collider() collider.Collider3 { return s.collider }

func (s *Solver3) SetCollider(c collider.Collider3) { s.collider = c }

func (s *Solver3) Emitter() Emitter3 { return s.emitter }

// SetEmitter attaches e and points it at this solver's particles.
func (s *Solver3) SetEmitter(e Emitter3) {
	s.emitter = e
	if e != nil {
		e.SetTarget(s.data)
	}
}

func (s *Solver3) SetHooks(h Hooks3) { s.hooks = h }

// NewPositions are the candidate positions of the sub-step in progress.
func (s *Solver3) NewPositions() []r3.Vec { return s.newPositions }

// NewVelocities are the candidate velocities of the sub-step in progress.
func (s *Solver3) NewVelocities() []r3.Vec { return s.newVelocities }

func (s *Solver3) Initialize() {
	s.updateCollider(0)
	s.updateEmitter(0)
}

func (s *Solver3) NumberOfSubTimeSteps(dt float64) int {
	if c, ok := s.hooks.(SubStepCounter); ok {
		return c.NumberOfSubTimeSteps(dt)
	}
	return 1
}

func (s *Solver3) CheckState() error { return s.data.CheckState() }

func (s *Solver3) AdvanceSubTimeStep(dt float64) {
	s.beginAdvanceTimeStep(dt)
	s.accumulateForces(dt)
	s.timeIntegration(dt)
	s.resolveCollision()
	s.endAdvanceTimeStep(dt)
}

func (s *Solver3) beginAdvanceTimeStep(dt float64) {
	s.updateCollider(dt)
	s.updateEmitter(dt)

	n := s.data.NumberOfParticles()
	clear(s.data.Forces())
	s.newPositions = resizeFill(s.newPositions, n, r3.Vec{})
	s.newVelocities = resizeFill(s.newVelocities, n, r3.Vec{})

	if s.hooks != nil {
		s.hooks.BeginAdvanceTimeStep(dt)
	}
}

func (s *Solver3) accumulateForces(dt float64) {
	mass := s.data.Mass()
	g := r3.Scale(mass, s.gravity)
	vel, forces := s.data.Velocities(), s.data.Forces()
	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		drag := r3.Scale(-s.drag, vel[i])
		forces[i] = r3.Add(forces[i], r3.Add(g, drag))
	})

	if s.hooks != nil {
		s.hooks.AccumulateForces(dt)
	}
}

func (s *Solver3) timeIntegration(dt float64) {
	n := s.data.NumberOfParticles()
	mass := s.data.Mass()
	pos, vel, forces := s.data.Positions(), s.data.Velocities(), s.data.Forces()

	parallel.For(0, n, func(i int) {
		s.newVelocities[i] = r3.Add(vel[i], r3.Scale(dt/mass, forces[i]))
	})
	if s.hooks != nil {
		s.hooks.VelocityIntegrated(dt)
	}
	parallel.For(0, n, func(i int) {
		s.newPositions[i] = r3.Add(pos[i], r3.Scale(dt, s.newVelocities[i]))
	})
}

func (s *Solver3) resolveCollision() {
	if s.collider == nil {
		return
	}
	radius := s.data.Radius()
	parallel.For(0, s.data.NumberOfParticles(), func(i int) {
		s.newPositions[i], s.newVelocities[i] = s.collider.ResolveCollision(
			radius, s.restitution, s.newPositions[i], s.newVelocities[i])
	})
}

func (s *Solver3) endAdvanceTimeStep(dt float64) {
	copy(s.data.Positions(), s.newPositions)
	copy(s.data.Velocities(), s.newVelocities)

	if s.hooks != nil {
		s.hooks.EndAdvanceTimeStep(dt)
	}
}

func (s *Solver3) updateCollider(dt float64) {
	if s.collider != nil {
		s.collider.Update(s.CurrentTimeInSeconds(), dt)
	}
}

func (s *Solver3) updateEmitter(dt float64) {
	if s.emitter != nil {
		s.emitter.Update(s.CurrentTimeInSeconds(), dt)
	}
}
