// Package geom provides the geometry collaborators of the simulator:
// integer grid sizes and indices, rays, rigid transforms and implicit
// surfaces in two and three dimensions.
//
// Points and vectors are gonum's [r2.Vec] and [r3.Vec]. Concrete shapes
// ([Plane3], [Sphere3], [Box3], [SurfaceSet3], ...) answer queries in their
// local frame through [Shape3]; a [Surface3] places a shape in the world
// and implements the world-space queries once for every shape:
//
//	ground := geom.NewSurface3(&geom.Plane3{Normal: r3.Vec{Y: 1}}, geom.Identity3())
//	p := ground.ClosestPoint(r3.Vec{X: 1, Y: -0.5})
//
// Surfaces are shared by pointer; the same surface may back several
// colliders and emitters at once.
package geom
