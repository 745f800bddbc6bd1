package sph

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/jetsim/internal/emitter"
	"github.com/san-kum/jetsim/internal/parallel"
	"github.com/san-kum/jetsim/internal/particles"
)

// SystemData2 is a 2D fluid particle set. The particle radius equals the
// target spacing, and the mass is chosen so that a particle inside a
// triangular lattice of that spacing has the target density.
type SystemData2 struct {
	*particles.SystemData2

	densityIdx  int
	pressureIdx int

	targetDensity        float64
	targetSpacing        float64
	relativeKernelRadius float64
	kernelRadius         float64
}

func NewSystemData2(n int) *SystemData2 {
	d := &SystemData2{
		SystemData2:          particles.NewSystemData2(n),
		targetDensity:        DefaultTargetDensity,
		targetSpacing:        DefaultTargetSpacing,
		relativeKernelRadius: DefaultRelativeKernelRadius,
	}
	d.densityIdx = d.AddScalarData(0)
	d.pressureIdx = d.AddScalarData(0)
	d.SetTargetSpacing(d.targetSpacing)
	return d
}

func (d *SystemData2) Densities() []float64 { return d.ScalarDataAt(d.densityIdx) }

func (d *SystemData2) Pressures() []float64 { return d.ScalarDataAt(d.pressureIdx) }

func (d *SystemData2) TargetDensity() float64 { return d.targetDensity }

func (d *SystemData2) SetTargetDensity(density float64) {
	d.targetDensity = density
	d.computeMass()
}

func (d *SystemData2) TargetSpacing() float64 { return d.targetSpacing }

// SetTargetSpacing also sets the particle radius and the kernel radius.
func (d *SystemData2) SetTargetSpacing(spacing float64) {
	d.SystemData2.SetRadius(spacing)
	d.targetSpacing = spacing
	d.kernelRadius = d.relativeKernelRadius * spacing
	d.computeMass()
}

// SetRadius is SetTargetSpacing.
func (d *SystemData2) SetRadius(r float64) { d.SetTargetSpacing(r) }

func (d *SystemData2) RelativeKernelRadius() float64 { return d.relativeKernelRadius }

// SetRelativeKernelRadius sets the kernel radius as a multiple of the target spacing.
func (d *SystemData2) SetRelativeKernelRadius(r float64) {
	d.relativeKernelRadius = r
	d.kernelRadius = r * d.targetSpacing
	d.computeMass()
}

func (d *SystemData2) KernelRadius() float64 { return d.kernelRadius }

// SetKernelRadius keeps the relative kernel radius and derives the target spacing.
func (d *SystemData2) SetKernelRadius(h float64) {
	d.kernelRadius = h
	d.targetSpacing = h / d.relativeKernelRadius
	d.SystemData2.SetRadius(d.targetSpacing)
	d.computeMass()
}

// SetMass scales the target density by the same ratio as the mass.
func (d *SystemData2) SetMass(m float64) {
	if old := d.Mass(); old > 0 {
		d.targetDensity *= m / old
	}
	d.SystemData2.SetMass(m)
}

func (d *SystemData2) computeMass() {
	h := d.kernelRadius
	box := r2.Box{
		Min: r2.Vec{X: -1.5 * h, Y: -1.5 * h},
		Max: r2.Vec{X: 1.5 * h, Y: 1.5 * h},
	}
	var points []r2.Vec
	emitter.TriangleLattice(box, d.targetSpacing, func(p r2.Vec) bool {
		points = append(points, p)
		return true
	})

	kernel := NewStdKernel2(h)
	maxNumberDensity := 0.0
	for _, p := range points {
		sum := 0.0
		for _, q := range points {
			sum += kernel.Value(r2.Norm(r2.Sub(p, q)))
		}
		maxNumberDensity = max(maxNumberDensity, sum)
	}
	if maxNumberDensity > 0 {
		d.SystemData2.SetMass(d.targetDensity / maxNumberDensity)
	}
}

// BuildNeighborSearcher indexes positions for kernel-radius queries.
func (d *SystemData2) BuildNeighborSearcher() {
	d.SystemData2.BuildNeighborSearcher(d.kernelRadius)
}

func (d *SystemData2) BuildNeighborLists() {
	d.SystemData2.BuildNeighborLists(d.kernelRadius)
}

// UpdateDensities recomputes every density from the current searcher.
func (d *SystemData2) UpdateDensities() {
	pos, rho := d.Positions(), d.Densities()
	mass := d.Mass()
	parallel.For(0, d.NumberOfParticles(), func(i int) {
		rho[i] = mass * d.sumOfKernelNearby(pos[i])
	})
}

func (d *SystemData2) sumOfKernelNearby(origin r2.Vec) float64 {
	kernel := NewStdKernel2(d.kernelRadius)
	sum := 0.0
	d.NeighborSearcher().ForEachNearbyPoint(origin, d.kernelRadius, func(_ int, p r2.Vec) {
		sum += kernel.Value(r2.Norm(r2.Sub(origin, p)))
	})
	return sum
}

// Interpolate estimates a scalar field at origin from per-particle values.
func (d *SystemData2) Interpolate(origin r2.Vec, values []float64) float64 {
	kernel := NewStdKernel2(d.kernelRadius)
	rho, mass := d.Densities(), d.Mass()
	sum := 0.0
	d.NeighborSearcher().ForEachNearbyPoint(origin, d.kernelRadius, func(j int, p r2.Vec) {
		w := mass / rho[j] * kernel.Value(r2.Norm(r2.Sub(origin, p)))
		sum += w * values[j]
	})
	return sum
}

func (d *SystemData2) InterpolateVector(origin r2.Vec, values []r2.Vec) r2.Vec {
	kernel := NewStdKernel2(d.kernelRadius)
	rho, mass := d.Densities(), d.Mass()
	var sum r2.Vec
	d.NeighborSearcher().ForEachNearbyPoint(origin, d.kernelRadius, func(j int, p r2.Vec) {
		w := mass / rho[j] * kernel.Value(r2.Norm(r2.Sub(origin, p)))
		sum = r2.Add(sum, r2.Scale(w, values[j]))
	})
	return sum
}

// GradientAt is the symmetric SPH gradient of values at particle i.
func (d *SystemData2) GradientAt(i int, values []float64) r2.Vec {
	kernel := NewSpikyKernel2(d.kernelRadius)
	pos, rho, mass := d.Positions(), d.Densities(), d.Mass()
	var sum r2.Vec
	for _, j := range d.NeighborLists()[i] {
		dist := r2.Norm(r2.Sub(pos[j], pos[i]))
		if dist > 0 {
			dir := r2.Scale(1/dist, r2.Sub(pos[j], pos[i]))
			c := rho[i] * mass * (values[i]/(rho[i]*rho[i]) + values[j]/(rho[j]*rho[j]))
			sum = r2.Add(sum, r2.Scale(c, kernel.GradientAt(dist, dir)))
		}
	}
	return sum
}

// LaplacianAt estimates the Laplacian of values at particle i.
func (d *SystemData2) LaplacianAt(i int, values []float64) float64 {
	kernel := NewSpikyKernel2(d.kernelRadius)
	pos, rho, mass := d.Positions(), d.Densities(), d.Mass()
	sum := 0.0
	for _, j := range d.NeighborLists()[i] {
		dist := r2.Norm(r2.Sub(pos[j], pos[i]))
		sum += mass * (values[j] - values[i]) / rho[j] * kernel.SecondDerivative(dist)
	}
	return sum
}

func (d *SystemData2) Serialize() ([]byte, error) {
	base, err := d.SystemData2.Serialize()
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
func (d *SystemData2) Deserialize(data []byte) error {
	var st sphState
	if err := decode(data, &st); err != nil {
		return err
	}
	base := particles.NewSystemData2(0)
	if err := base.Deserialize(st.Particles); err != nil {
		return err
	}
	if err := st.check(base.NumberOfScalarData()); err != nil {
		return err
	}
	builder := d.SearcherBuilder()
	*d.SystemData2 = *base
	d.SetSearcherBuilder(builder)
	d.densityIdx, d.pressureIdx = st.DensityIdx, st.PressureIdx
	d.targetDensity, d.targetSpacing = st.TargetDensity, st.TargetSpacing
	d.relativeKernelRadius, d.kernelRadius = st.RelativeKernelRadius, st.KernelRadius
	return nil
}
