package anim

import (
	"github.com/go-logr/logr"

	"github.com/san-kum/jetsim/internal/numeric"
)

// Animation is anything that can be brought to a frame.
type Animation interface {
	Update(frame Frame) error
}

// Stepper is implemented by solvers driven by a PhysicsAnimation.
type Stepper interface {
	// Initialize runs once, before the first sub-step.
	Initialize()
	AdvanceSubTimeStep(dt float64)
	// NumberOfSubTimeSteps is consulted in adaptive mode only.
	NumberOfSubTimeSteps(dt float64) int
}

// StateChecker is an optional Stepper extension used when state validation
// is enabled.
type StateChecker interface {
	CheckState() error
}

// Observer is notified after every completed frame.
type Observer interface {
	OnFrame(frame Frame, t float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(frame Frame, t float64)

func (f ObserverFunc) OnFrame(frame Frame, t float64) { f(frame, t) }

type PhysicsAnimation struct {
	stepper Stepper

	currentFrame int64
	currentTime  float64

	fixedSubSteps    bool
	numFixedSubSteps int
	validateState    bool

	observers []Observer
	log       logr.Logger
}

// NewPhysicsAnimation returns an animation at frame -1 that advances with
// one fixed sub-step per frame.
func NewPhysicsAnimation(s Stepper) *PhysicsAnimation {
	return &PhysicsAnimation{
		stepper:          s,
		currentFrame:     -1,
		fixedSubSteps:    true,
		numFixedSubSteps: 1,
		log:              logr.Discard(),
	}
}

func (a *PhysicsAnimation) SetLogger(l logr.Logger) { a.log = l }

func (a *PhysicsAnimation) Logger() logr.Logger { return a.log }

func (a *PhysicsAnimation) AddObserver(o Observer) { a.observers = append(a.observers, o) }

// CurrentFrameIndex is -1 until the first Update.
func (a *PhysicsAnimation) CurrentFrameIndex() int64 { return a.currentFrame }

func (a *PhysicsAnimation) CurrentTimeInSeconds() float64 { return a.currentTime }

func (a *PhysicsAnimation) IsUsingFixedSubTimeSteps() bool { return a.fixedSubSteps }

func (a *PhysicsAnimation) SetIsUsingFixedSubTimeSteps(fixed bool) { a.fixedSubSteps = fixed }

func (a *PhysicsAnimation) NumberOfFixedSubTimeSteps() int { return a.numFixedSubSteps }

// SetNumberOfFixedSubTimeSteps clamps n to at least one.
func (a *PhysicsAnimation) SetNumberOfFixedSubTimeSteps(n int) {
	a.numFixedSubSteps = max(n, 1)
}

func (a *PhysicsAnimation) ValidateState() bool { return a.validateState }

func (a *PhysicsAnimation) SetValidateState(v bool) { a.validateState = v }

// Update advances the simulation from the last updated frame to frame.
// Frames at or before the current one are ignored.
func (a *PhysicsAnimation) Update(frame Frame) error {
	if err := frame.validate(); err != nil {
		return err
	}
	target := int64(frame.Index)
	if target <= a.currentFrame {
		return nil
	}
	if a.currentFrame < 0 {
		a.stepper.Initialize()
	}

	for idx := a.currentFrame + 1; idx <= target; idx++ {
		subSteps := a.advanceTimeStep(frame.TimeIntervalInSeconds)
		a.currentFrame = idx
		done := Frame{Index: uint(idx), TimeIntervalInSeconds: frame.TimeIntervalInSeconds}
		a.log.V(1).Info("frame advanced", "frame", idx, "time", a.currentTime, "subSteps", subSteps)

		if a.validateState {
			if c, ok := a.stepper.(StateChecker); ok {
				if err := c.CheckState(); err != nil {
					return SimError{Frame: done.Index, Time: a.currentTime, Message: err.Error()}
				}
			}
		}
		for _, o := range a.observers {
			o.OnFrame(done, a.currentTime)
		}
	}
	return nil
}

func (a *PhysicsAnimation) advanceTimeStep(dt float64) int {
	if a.fixedSubSteps {
		sub := dt / float64(a.numFixedSubSteps)
		for i := 0; i < a.numFixedSubSteps; i++ {
			a.stepper.AdvanceSubTimeStep(sub)
			a.currentTime += sub
		}
		return a.numFixedSubSteps
	}

	steps := 0
	remaining := dt
	for remaining > numeric.Epsilon {
		n := max(a.stepper.NumberOfSubTimeSteps(remaining), 1)
		sub := remaining / float64(n)
		a.stepper.AdvanceSubTimeStep(sub)
		remaining -= sub
		a.currentTime += sub
		steps++
	}
	return steps
}
