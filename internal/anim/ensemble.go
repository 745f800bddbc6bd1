package anim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble brings several independent animations to the same frame
// concurrently. The animations must not share mutable state.
type Ensemble struct {
	runs  []Animation
	limit int
}

func NewEnsemble(runs ...Animation) *Ensemble {
	return &Ensemble{runs: runs}
}

func (e *Ensemble) Add(a Animation) { e.runs = append(e.runs, a) }

// SetLimit caps the number of animations stepped at once. Zero or less
// means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

func (e *Ensemble) Len() int { return len(e.runs) }

// Run updates every animation frame by frame up to target. The first error
// cancels the other runs at their next frame boundary.
func (e *Ensemble) Run(ctx context.Context, target Frame) error {
	if err := target.validate(); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for _, a := range e.runs {
		a := a
		g.Go(func() error {
			frame := Frame{TimeIntervalInSeconds: target.TimeIntervalInSeconds}
			for ; frame.Index <= target.Index; frame.Advance() {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := a.Update(frame); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
