package metrics

import "math"

// KineticEnergy is the total kinetic energy of the fluid at the latest
// sample.
type KineticEnergy struct {
	name   string
	energy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f Fluid, t float64) {
	sum := 0.0
	for i, n := 0, f.NumberOfParticles(); i < n; i++ {
		sum += f.SquaredSpeed(i)
	}
	e.energy = 0.5 * f.Mass() * sum
}

func (e *KineticEnergy) Value() float64 { return e.energy }

func (e *KineticEnergy) Reset() { e.energy = 0 }

// MaxDensity is the largest density relative to the target density seen
// at the latest sample. Values well above one mean the fluid is being
// compressed.
type MaxDensity struct {
	name  string
	ratio float64
}

func NewMaxDensity() *MaxDensity {
	return &MaxDensity{name: "max_density_ratio"}
}

func (d *MaxDensity) Name() string { return d.name }

func (d *MaxDensity) Observe(f Fluid, t float64) {
	target := f.TargetDensity()
	d.ratio = 0
	if target <= 0 {
		return
	}
	for _, rho := range f.Densities() {
		d.ratio = math.Max(d.ratio, rho/target)
	}
}

func (d *MaxDensity) Value() float64 { return d.ratio }

func (d *MaxDensity) Reset() { d.ratio = 0 }
