package sph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/emitter"
	"github.com/san-kum/jetsim/internal/particles"
	"github.com/san-kum/jetsim/internal/sph"
)

func fillBcc(d *sph.SystemData3, box r3.Box, spacing float64) {
	var pts []r3.Vec
	emitter.BccLattice(box, spacing, func(p r3.Vec) bool {
		pts = append(pts, p)
		return true
	})
	d.AddParticles(pts, nil, nil)
}

func fillTriangle(d *sph.SystemData2, box r2.Box, spacing float64) {
	var pts []r2.Vec
	emitter.TriangleLattice(box, spacing, func(p r2.Vec) bool {
		pts = append(pts, p)
		return true
	})
	d.AddParticles(pts, nil, nil)
}

func maxOf(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		m = max(m, x)
	}
	return m
}

var _ = Describe("SystemData3", func() {
	var d *sph.SystemData3

	BeforeEach(func() {
		d = sph.NewSystemData3(0)
	})

	It("starts with the fluid defaults", func() {
		Expect(d.TargetDensity()).To(Equal(sph.DefaultTargetDensity))
		Expect(d.TargetSpacing()).To(Equal(sph.DefaultTargetSpacing))
		Expect(d.Radius()).To(Equal(sph.DefaultTargetSpacing))
		Expect(d.KernelRadius()).To(BeNumerically("~", 0.18, 1e-12))
		Expect(d.Mass()).To(BeNumerically(">", 0))
		Expect(d.Densities()).To(BeEmpty())
		Expect(d.Pressures()).To(BeEmpty())
	})

	It("keeps spacing, radius and kernel radius in step", func() {
		d.SetTargetSpacing(0.2)
		Expect(d.Radius()).To(Equal(0.2))
		Expect(d.KernelRadius()).To(BeNumerically("~", 0.36, 1e-12))

		d.SetKernelRadius(0.9)
		Expect(d.TargetSpacing()).To(BeNumerically("~", 0.5, 1e-12))
		Expect(d.Radius()).To(BeNumerically("~", 0.5, 1e-12))

		d.SetRelativeKernelRadius(2)
		Expect(d.KernelRadius()).To(BeNumerically("~", 1, 1e-12))
	})

	It("rescales the target density with the mass", func() {
		m := d.Mass()
		d.SetMass(2 * m)
		Expect(d.Mass()).To(Equal(2 * m))
		Expect(d.TargetDensity()).To(BeNumerically("~", 2000, 1e-9))
	})

	It("scales the mass with the target density", func() {
		m := d.Mass()
		d.SetTargetDensity(500)
		Expect(d.Mass()).To(BeNumerically("~", m/2, 1e-15))
	})

	Context("with a BCC block of particles", func() {
		BeforeEach(func() {
			fillBcc(d, r3.Box{Max: r3.Vec{X: 0.8, Y: 0.8, Z: 0.8}}, d.TargetSpacing())
			d.BuildNeighborSearcher()
			d.BuildNeighborLists()
			d.UpdateDensities()
		})

		It("reaches the target density inside the block", func() {
			Expect(maxOf(d.Densities())).To(BeNumerically("~", d.TargetDensity(), 1e-3*d.TargetDensity()))
		})

		It("interpolates a constant field to one at an interior particle", func() {
			center := r3.Vec{X: 0.4, Y: 0.4, Z: 0.4}
			ones := make([]float64, d.NumberOfParticles())
			for i := range ones {
				ones[i] = 1
			}
			Expect(d.Interpolate(center, ones)).To(BeNumerically("~", 1, 1e-3))

			vs := make([]r3.Vec, d.NumberOfParticles())
			for i := range vs {
				vs[i] = r3.Vec{X: 2}
			}
			Expect(d.InterpolateVector(center, vs).X).To(BeNumerically("~", 2, 2e-3))
		})

		It("has a zero gradient and Laplacian for a constant field", func() {
			zeros := make([]float64, d.NumberOfParticles())
			Expect(d.GradientAt(0, zeros)).To(Equal(r3.Vec{}))
			Expect(d.LaplacianAt(0, zeros)).To(BeZero())
		})

		It("round-trips through Serialize", func() {
			blob, err := d.Serialize()
			Expect(err).NotTo(HaveOccurred())

			got := sph.NewSystemData3(0)
			Expect(got.Deserialize(blob)).To(Succeed())
			Expect(got.NumberOfParticles()).To(Equal(d.NumberOfParticles()))
			Expect(got.Positions()).To(Equal(d.Positions()))
			Expect(got.Densities()).To(Equal(d.Densities()))
			Expect(got.Mass()).To(Equal(d.Mass()))
			Expect(got.KernelRadius()).To(Equal(d.KernelRadius()))
			Expect(got.TargetDensity()).To(Equal(d.TargetDensity()))
			Expect(got.NeighborSearcher().HasNearbyPoint(d.Positions()[0], 1e-6)).To(BeTrue())
		})
	})

	It("rejects corrupt snapshots", func() {
		Expect(d.Deserialize([]byte("junk"))).To(MatchError(particles.ErrCorruptSnapshot))
	})
})

var _ = Describe("SystemData2", func() {
	It("reaches the target density inside a triangular block", func() {
		d := sph.NewSystemData2(0)
		fillTriangle(d, r2.Box{Max: r2.Vec{X: 0.8, Y: 0.8}}, d.TargetSpacing())
		d.BuildNeighborSearcher()
		d.BuildNeighborLists()
		d.UpdateDensities()
		Expect(maxOf(d.Densities())).To(BeNumerically("~", d.TargetDensity(), 1e-3*d.TargetDensity()))
	})

	It("round-trips through Serialize", func() {
		d := sph.NewSystemData2(0)
		d.SetTargetDensity(800)
		d.AddParticle(r2.Vec{X: 1}, r2.Vec{Y: 2}, r2.Vec{})
		blob, err := d.Serialize()
		Expect(err).NotTo(HaveOccurred())

		got := sph.NewSystemData2(0)
		Expect(got.Deserialize(blob)).To(Succeed())
		Expect(got.TargetDensity()).To(Equal(800.0))
		Expect(got.Velocities()).To(Equal([]r2.Vec{{Y: 2}}))
	})
})
