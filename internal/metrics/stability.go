package metrics

import "math"

// DefaultSpeedLimit flags frames where any particle moves faster than
// this many meters per second.
const DefaultSpeedLimit = 50.0

// Stability is the fraction of sampled frames in which every particle
// stayed finite and under the speed limit.
type Stability struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewStability(limit float64) *Stability {
	return &Stability{
		name:  "stability",
		limit: limit,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f Fluid, t float64) {
	s.samples++
	limit2 := s.limit * s.limit
	for i, n := 0, f.NumberOfParticles(); i < n; i++ {
		v2 := f.SquaredSpeed(i)
		if math.IsNaN(v2) || v2 > limit2 {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
