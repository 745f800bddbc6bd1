// Package anim drives frame-based simulations.
//
// A [PhysicsAnimation] turns Update(frame) calls into a sequence of sub-steps
// on a [Stepper]. Solvers embed it and implement the Stepper hooks.
package anim

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidFrame indicates a frame with a non-positive or non-finite interval.
	ErrInvalidFrame = errors.New("anim: invalid frame")

	// ErrInvalidState indicates NaN or Inf in the simulated state.
	ErrInvalidState = errors.New("anim: invalid state (NaN or Inf detected)")
)

// Frame is one animation frame: an index and the interval it covers.
type Frame struct {
	Index                 uint
	TimeIntervalInSeconds float64
}

func NewFrame(index uint, dt float64) Frame {
	return Frame{Index: index, TimeIntervalInSeconds: dt}
}

// TimeInSeconds is the start time of the frame.
func (f Frame) TimeInSeconds() float64 {
	return float64(f.Index) * f.TimeIntervalInSeconds
}

func (f *Frame) Advance() { f.Index++ }

func (f *Frame) AdvanceBy(n uint) { f.Index += n }

func (f Frame) validate() error {
	dt := f.TimeIntervalInSeconds
	if !(dt > 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("%w: interval %v", ErrInvalidFrame, dt)
	}
	return nil
}

// SimError reports a frame whose resulting state failed validation.
type SimError struct {
	Frame   uint
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return ErrInvalidState }
