package sph

// Pressure exposes the equation of state to the external tests.
func (s *Solver3) Pressure(density, targetDensity float64) float64 {
	return s.pressure(density, targetDensity)
}
