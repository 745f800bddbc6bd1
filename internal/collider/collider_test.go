package collider_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/collider"
	"github.com/san-kum/jetsim/internal/geom"
)

const tol = 1e-12

func expectVec3(got, want r3.Vec) {
	ExpectWithOffset(1, got.X).To(BeNumerically("~", want.X, tol))
	ExpectWithOffset(1, got.Y).To(BeNumerically("~", want.Y, tol))
	ExpectWithOffset(1, got.Z).To(BeNumerically("~", want.Z, tol))
}

func expectVec2(got, want r2.Vec) {
	ExpectWithOffset(1, got.X).To(BeNumerically("~", want.X, tol))
	ExpectWithOffset(1, got.Y).To(BeNumerically("~", want.Y, tol))
}

func floor3() *geom.Surface3 {
	return geom.NewSurface3(&geom.Plane3{Normal: r3.Vec{Y: 1}}, geom.Identity3())
}

var _ = Describe("RigidBodyCollider3", func() {
	var c *collider.RigidBodyCollider3

	BeforeEach(func() {
		c = collider.NewRigidBodyCollider3(floor3())
	})

	Context("against a plane", func() {
		It("snaps to the offset surface and reflects the normal velocity", func() {
			pos, vel := c.ResolveCollision(0.1, 0.5, r3.Vec{X: 1, Y: -0.2, Z: 2}, r3.Vec{Y: -2})
			expectVec3(pos, r3.Vec{X: 1, Y: 0.1, Z: 2})
			expectVec3(vel, r3.Vec{Y: 1})
		})

		It("leaves separated particles alone", func() {
			pos, vel := c.ResolveCollision(0.1, 0.5, r3.Vec{Y: 1}, r3.Vec{Y: -3})
			Expect(pos).To(Equal(r3.Vec{Y: 1}))
			Expect(vel).To(Equal(r3.Vec{Y: -3}))
		})

		It("pushes out particles closer than their radius without touching separating velocity", func() {
			pos, vel := c.ResolveCollision(0.1, 0.5, r3.Vec{Y: 0.05}, r3.Vec{X: 1, Y: 1})
			expectVec3(pos, r3.Vec{Y: 0.1})
			Expect(vel).To(Equal(r3.Vec{X: 1, Y: 1}))
		})

		It("scales tangential velocity by friction", func() {
			c.Friction = 0.1
			_, vel := c.ResolveCollision(0.1, 0, r3.Vec{Y: -0.5}, r3.Vec{X: 1, Y: -1})
			expectVec3(vel, r3.Vec{X: 0.9})
		})

		It("never reverses tangential velocity", func() {
			c.Friction = 10
			_, vel := c.ResolveCollision(0.1, 0, r3.Vec{Y: -0.5}, r3.Vec{X: 1, Y: -1})
			expectVec3(vel, r3.Vec{})
		})

		It("measures velocity relative to a moving collider", func() {
			c.LinearVelocity = r3.Vec{Y: 1}
			_, vel := c.ResolveCollision(0.1, 0, r3.Vec{Y: -0.5}, r3.Vec{})
			expectVec3(vel, r3.Vec{Y: 1})
		})
	})

	It("spins around the surface translation", func() {
		c = collider.NewRigidBodyCollider3(geom.NewSurface3(&geom.Sphere3{Radius: 1}, geom.Translate3(r3.Vec{X: 1})))
		c.LinearVelocity = r3.Vec{Z: 2}
		c.AngularVelocity = r3.Vec{Z: 1}
		expectVec3(c.VelocityAt(r3.Vec{X: 2}), r3.Vec{Y: 1, Z: 2})
	})

	It("runs the update callback", func() {
		var times []float64
		c.OnUpdate = func(rb *collider.RigidBodyCollider3, t, dt float64) {
			times = append(times, t)
			rb.Surface().Transform.Translation.Y += dt
		}
		c.Update(0, 0.5)
		c.Update(0.5, 0.5)
		Expect(times).To(Equal([]float64{0, 0.5}))
		Expect(c.Surface().Transform.Translation.Y).To(BeNumerically("~", 1.0, tol))
	})
})

var _ = Describe("RigidBodyCollider2", func() {
	It("resolves against a line with restitution", func() {
		s := geom.NewSurface2(&geom.Plane2{Normal: r2.Vec{X: 1}, Point: r2.Vec{X: -1}}, geom.Transform2{})
		c := collider.NewRigidBodyCollider2(s)
		pos, vel := c.ResolveCollision(0.2, 0.5, r2.Vec{X: -1.5, Y: 3}, r2.Vec{X: -4})
		expectVec2(pos, r2.Vec{X: -0.8, Y: 3})
		expectVec2(vel, r2.Vec{X: 2})
	})

	It("adds the angular term", func() {
		s := geom.NewSurface2(&geom.Sphere2{Radius: 1}, geom.Transform2{Translation: r2.Vec{Y: 1}})
		c := collider.NewRigidBodyCollider2(s)
		c.AngularVelocity = 2
		expectVec2(c.VelocityAt(r2.Vec{X: 1, Y: 1}), r2.Vec{Y: 2})
	})
})

var _ = Describe("ColliderSet3", func() {
	var (
		floor, wall *collider.RigidBodyCollider3
		set         *collider.ColliderSet3
	)

	BeforeEach(func() {
		floor = collider.NewRigidBodyCollider3(floor3())
		wall = collider.NewRigidBodyCollider3(geom.NewSurface3(
			&geom.Plane3{Normal: r3.Vec{X: -1}, Point: r3.Vec{X: 10}}, geom.Identity3()))
		wall.LinearVelocity = r3.Vec{Z: 5}
		set = collider.NewColliderSet3(floor, wall)
	})

	It("reports the velocity of the nearest member", func() {
		Expect(set.VelocityAt(r3.Vec{X: 9.5, Y: 5})).To(Equal(r3.Vec{Z: 5}))
		Expect(set.VelocityAt(r3.Vec{X: 1, Y: 0.5})).To(Equal(r3.Vec{}))
	})

	It("resolves against the nearest surface", func() {
		pos, vel := set.ResolveCollision(0.1, 0, r3.Vec{X: 0.5, Y: -0.2}, r3.Vec{Y: -1})
		expectVec3(pos, r3.Vec{X: 0.5, Y: 0.1})
		expectVec3(vel, r3.Vec{})

		pos, _ = set.ResolveCollision(0.1, 0, r3.Vec{X: 10.3, Y: 5}, r3.Vec{X: 1})
		expectVec3(pos, r3.Vec{X: 9.9, Y: 5})
	})

	It("forwards updates to members", func() {
		calls := 0
		wall.OnUpdate = func(*collider.RigidBodyCollider3, float64, float64) { calls++ }
		set.Update(0, 0.1)
		Expect(calls).To(Equal(1))
	})

	It("is inert when empty", func() {
		empty := collider.NewColliderSet3()
		Expect(empty.VelocityAt(r3.Vec{X: 1})).To(Equal(r3.Vec{}))
		pos, vel := empty.ResolveCollision(0.1, 0.5, r3.Vec{Y: -1}, r3.Vec{Y: -1})
		Expect(pos).To(Equal(r3.Vec{Y: -1}))
		Expect(vel).To(Equal(r3.Vec{Y: -1}))
	})
})

var _ = Describe("ColliderSet2", func() {
	It("delegates to the nearest member", func() {
		left := collider.NewRigidBodyCollider2(geom.NewSurface2(
			&geom.Plane2{Normal: r2.Vec{X: 1}, Point: r2.Vec{}}, geom.Transform2{}))
		right := collider.NewRigidBodyCollider2(geom.NewSurface2(
			&geom.Plane2{Normal: r2.Vec{X: -1}, Point: r2.Vec{X: 4}}, geom.Transform2{}))
		right.LinearVelocity = r2.Vec{Y: -1}
		set := collider.NewColliderSet2(left, right)

		Expect(set.Len()).To(Equal(2))
		Expect(set.VelocityAt(r2.Vec{X: 3.5})).To(Equal(r2.Vec{Y: -1}))

		pos, _ := set.ResolveCollision(0.1, 0, r2.Vec{X: -0.3, Y: 1}, r2.Vec{X: -1})
		expectVec2(pos, r2.Vec{X: 0.1, Y: 1})
	})
})
