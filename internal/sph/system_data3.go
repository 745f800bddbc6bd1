package sph

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/emitter"
	"github.com/san-kum/jetsim/internal/parallel"
	"github.com/san-kum/jetsim/internal/particles"
)

// SystemData3 is a 3D fluid particle set. The particle radius equals the
// target spacing, and the mass is chosen so that a particle inside a
// BCC lattice of that spacing has the target density.
type SystemData3 struct {
	*particles.SystemData3

	densityIdx  int
	pressureIdx int

	targetDensity        float64
	targetSpacing        float64
	relativeKernelRadius float64
	kernelRadius         float64
}

func NewSystemData3(n int) *SystemData3 {
	d := &SystemData3{
		SystemData3:          particles.NewSystemData3(n),
		targetDensity:        DefaultTargetDensity,
		targetSpacing:        DefaultTargetSpacing,
		relativeKernelRadius: DefaultRelativeKernelRadius,
	}
	d.densityIdx = d.AddScalarData(0)
	d.pressureIdx = d.AddScalarData(0)
	d.SetTargetSpacing(d.targetSpacing)
	return d
}

func (d *SystemData3) Densities() []float64 { return d.ScalarDataAt(d.densityIdx) }

func (d *SystemData3) Pressures() []float64 { return d.ScalarDataAt(d.pressureIdx) }

func (d *SystemData3) TargetDensity() float64 { return d.targetDensity }

func (d *SystemData3) SetTargetDensity(density float64) {
	d.targetDensity = density
	d.computeMass()
}

func (d *SystemData3) TargetSpacing() float64 { return d.targetSpacing }

// SetTargetSpacing also sets the particle radius and the kernel radius.
func (d *SystemData3) SetTargetSpacing(spacing float64) {
	d.SystemData3.SetRadius(spacing)
	d.targetSpacing = spacing
	d.kernelRadius = d.relativeKernelRadius * spacing
	d.computeMass()
}

// SetRadius is SetTargetSpacing.
func (d *SystemData3) SetRadius(r float64) { d.SetTargetSpacing(r) }

func (d *SystemData3) RelativeKernelRadius() float64 { return d.relativeKernelRadius }

// SetRelativeKernelRadius sets the kernel radius as a multiple of the target spacing.
func (d *SystemData3) SetRelativeKernelRadius(r float64) {
	d.relativeKernelRadius = r
	d.kernelRadius = r * d.targetSpacing
	d.computeMass()
}

func (d *SystemData3) KernelRadius() float64 { return d.kernelRadius }

// SetKernelRadius keeps the relative kernel radius and derives the target spacing.
func (d *SystemData3) SetKernelRadius(h float64) {
	d.kernelRadius = h
	d.targetSpacing = h / d.relativeKernelRadius
	d.SystemData3.SetRadius(d.targetSpacing)
	d.computeMass()
}

// SetMass scales the target density by the same ratio as the mass.
func (d *SystemData3) SetMass(m float64) {
	if old := d.Mass(); old > 0 {
		d.targetDensity *= m / old
	}
	d.SystemData3.SetMass(m)
}

func (d *SystemData3) computeMass() {
	h := d.kernelRadius
	box := r3.Box{
		Min: r3.Vec{X: -1.5 * h, Y: -1.5 * h, Z: -1.5 * h},
		Max: r3.Vec{X: 1.5 * h, Y: 1.5 * h, Z: 1.5 * h},
	}
	var points []r3.Vec
	emitter.BccLattice(box, d.targetSpacing, func(p r3.Vec) bool {
		points = append(points, p)
		return true
	})

	kernel := NewStdKernel3(h)
	maxNumberDensity := 0.0
	for _, p := range points {
		sum := 0.0
		for _, q := range points {
			sum += kernel.Value(r3.Norm(r3.Sub(p, q)))
		}
		maxNumberDensity = max(maxNumberDensity, sum)
	}
	if maxNumberDensity > 0 {
		d.SystemData3.SetMass(d.targetDensity / maxNumberDensity)
	}
}

// BuildNeighborSearcher indexes positions for kernel-radius queries.
func (d *SystemData3) BuildNeighborSearcher() {
	d.SystemData3.BuildNeighborSearcher(d.kernelRadius)
}

func (d *SystemData3) BuildNeighborLists() {
	d.SystemData3.BuildNeighborLists(d.kernelRadius)
}

// UpdateDensities recomputes every density from the current searcher.
func (d *SystemData3) UpdateDensities() {
	pos, rho := d.Positions(), d.Densities()
	mass := d.Mass()
	parallel.For(0, d.NumberOfParticles(), func(i int) {
		rho[i] = mass * d.sumOfKernelNearby(pos[i])
	})
}

func (d *SystemData3) sumOfKernelNearby(origin r3.Vec) float64 {
	kernel := NewStdKernel3(d.kernelRadius)
	sum := 0.0
	d.NeighborSearcher().ForEachNearbyPoint(origin, d.kernelRadius, func(_ int, p r3.Vec) {
		sum += kernel.Value(r3.Norm(r3.Sub(origin, p)))
	})
	return sum
}

// Interpolate estimates a scalar field at origin from per-particle values.
func (d *SystemData3) Interpolate(origin r3.Vec, values []float64) float64 {
	kernel := NewStdKernel3(d.kernelRadius)
	rho, mass := d.Densities(), d.Mass()
	sum := 0.0
	d.NeighborSearcher().ForEachNearbyPoint(origin, d.kernelRadius, func(j int, p r3.Vec) {
		w := mass / rho[j] * kernel.Value(r3.Norm(r3.Sub(origin, p)))
		sum += w * values[j]
	})
	return sum
}

func (d *SystemData3) InterpolateVector(origin r3.Vec, values []r3.Vec) r3.Vec {
	kernel := NewStdKernel3(d.kernelRadius)
	rho, mass := d.Densities(), d.Mass()
	var sum r3.Vec
	d.NeighborSearcher().ForEachNearbyPoint(origin, d.kernelRadius, func(j int, p r3.Vec) {
		w := mass / rho[j] * kernel.Value(r3.Norm(r3.Sub(origin, p)))
		sum = r3.Add(sum, r3.Scale(w, values[j]))
	})
	return sum
}

// GradientAt is the symmetric SPH gradient of values at particle i.
func (d *SystemData3) GradientAt(i int, values []float64) r3.Vec {
	kernel := NewSpikyKernel3(d.kernelRadius)
	pos, rho, mass := d.Positions(), d.Densities(), d.Mass()
	var sum r3.Vec
	for _, j := range d.NeighborLists()[i] {
		dist := r3.Norm(r3.Sub(pos[j], pos[i]))
		if dist > 0 {
			dir := r3.Scale(1/dist, r3.Sub(pos[j], pos[i]))
			c := rho[i] * mass * (values[i]/(rho[i]*rho[i]) + values[j]/(rho[j]*rho[j]))
			sum = r3.Add(sum, r3.Scale(c, kernel.GradientAt(dist, dir)))
		}
	}
	return sum
}

// LaplacianAt estimates the Laplacian of values at particle i.
func (d *SystemData3) LaplacianAt(i int, values []float64) float64 {
	kernel := NewSpikyKernel3(d.kernelRadius)
	pos, rho, mass := d.Positions(), d.Densities(), d.Mass()
	sum := 0.0
	for _, j := range d.NeighborLists()[i] {
		dist := r3.Norm(r3.Sub(pos[j], pos[i]))
		sum += mass * (values[j] - values[i]) / rho[j] * kernel.SecondDerivative(dist)
	}
	return sum
}

type sphState struct {
	Particles            []byte
	DensityIdx           int
	PressureIdx          int
	TargetDensity        float64
	TargetSpacing        float64
	RelativeKernelRadius float64
	KernelRadius         float64
}

func (d *SystemData3) Serialize() ([]byte, error) {
	base, err := d.SystemData3.Serialize()
	if err != nil {
		return nil, err
	}
	return encode(sphState{
		Particles:            base,
		DensityIdx:           d.densityIdx,
		PressureIdx:          d.pressureIdx,
		TargetDensity:        d.targetDensity,
		TargetSpacing:        d.targetSpacing,
		RelativeKernelRadius: d.relativeKernelRadius,
		KernelRadius:         d.kernelRadius,
	})
}

// Deserialize restores a snapshot written by Serialize in place, so
// solvers sharing d see the restored particles. The mass is taken from the
// snapshot, not recomputed.
func (d *SystemData3) Deserialize(data []byte) error {
	var st sphState
	if err := decode(data, &st); err != nil {
		return err
	}
	base := particles.NewSystemData3(0)
	if err := base.Deserialize(st.Particles); err != nil {
		return err
	}
	if err := st.check(base.NumberOfScalarData()); err != nil {
		return err
	}
	builder := d.SearcherBuilder()
	*d.SystemData3 = *base
	d.SetSearcherBuilder(builder)
	d.densityIdx, d.pressureIdx = st.DensityIdx, st.PressureIdx
	d.targetDensity, d.targetSpacing = st.TargetDensity, st.TargetSpacing
	d.relativeKernelRadius, d.kernelRadius = st.RelativeKernelRadius, st.KernelRadius
	return nil
}

func (st sphState) check(scalars int) error {
	if st.DensityIdx < 0 || st.DensityIdx >= scalars || st.PressureIdx < 0 || st.PressureIdx >= scalars {
		return fmt.Errorf("%w: density/pressure channels %d/%d of %d",
			particles.ErrCorruptSnapshot, st.DensityIdx, st.PressureIdx, scalars)
	}
	return nil
}
