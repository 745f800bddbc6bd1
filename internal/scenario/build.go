package scenario

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/jetsim/internal/collider"
	"github.com/san-kum/jetsim/internal/config"
	"github.com/san-kum/jetsim/internal/emitter"
	"github.com/san-kum/jetsim/internal/geom"
	"github.com/san-kum/jetsim/internal/metrics"
	"github.com/san-kum/jetsim/internal/particles"
	"github.com/san-kum/jetsim/internal/sph"
)

func vec3(v config.Vec) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func vec2(v config.Vec) r2.Vec { return r2.Vec{X: v[0], Y: v[1]} }

func options(c config.SolverConfig) sph.Options {
	return sph.Options{
		TargetDensity:              c.TargetDensity,
		TargetSpacing:              c.TargetSpacing,
		RelativeKernelRadius:       c.RelativeKernelRadius,
		EOSExponent:                c.EOSExponent,
		NegativePressureScale:      c.NegativePressureScale,
		ViscosityCoefficient:       c.Viscosity,
		PseudoViscosityCoefficient: c.PseudoViscosity,
		SpeedOfSound:               c.SpeedOfSound,
		TimeStepLimitScale:         c.TimeStepLimitScale,
	}
}

func domain3(cfg *config.Config) r3.Box {
	return r3.Box{Max: vec3(cfg.Collider.Domain)}
}

func domain2(cfg *config.Config) r2.Box {
	return r2.Box{Max: vec2(cfg.Collider.Domain)}
}

// solver3 builds an SPH solver inside a closed box container.
func solver3(cfg *config.Config) (*sph.Solver3, error) {
	s := sph.NewSolver3(options(cfg.Solver))
	s.SetGravity(r3.Vec{Y: cfg.Solver.Gravity})
	s.SetDragCoefficient(cfg.Solver.Drag)
	s.SetRestitutionCoefficient(cfg.Solver.Restitution)
	if n := cfg.Solver.FixedSubSteps; n > 0 {
		s.SetIsUsingFixedSubTimeSteps(true)
		s.SetNumberOfFixedSubTimeSteps(n)
	}

	b, err := particles.SearcherBuilder3ByName(cfg.Searcher)
	if err != nil {
		return nil, err
	}
	s.SPHSystemData().SetSearcherBuilder(b)

	box := geom.NewSurface3(&geom.Box3{Bound: domain3(cfg)}, geom.Identity3())
	box.IsNormalFlipped = true
	c := collider.NewRigidBodyCollider3(box)
	c.Friction = cfg.Collider.Friction
	s.SetCollider(c)
	return s, nil
}

func solver2(cfg *config.Config) (*sph.Solver2, error) {
	s := sph.NewSolver2(options(cfg.Solver))
	s.SetGravity(r2.Vec{Y: cfg.Solver.Gravity})
	s.SetDragCoefficient(cfg.Solver.Drag)
	s.SetRestitutionCoefficient(cfg.Solver.Restitution)
	if n := cfg.Solver.FixedSubSteps; n > 0 {
		s.SetIsUsingFixedSubTimeSteps(true)
		s.SetNumberOfFixedSubTimeSteps(n)
	}

	b, err := particles.SearcherBuilder2ByName(cfg.Searcher)
	if err != nil {
		return nil, err
	}
	s.SPHSystemData().SetSearcherBuilder(b)

	box := geom.NewSurface2(&geom.Box2{Bound: domain2(cfg)}, geom.Transform2{})
	box.IsNormalFlipped = true
	c := collider.NewRigidBodyCollider2(box)
	c.Friction = cfg.Collider.Friction
	s.SetCollider(c)
	return s, nil
}

func run3(cfg *config.Config, s *sph.Solver3, e particles.Emitter3) *Run {
	s.SetEmitter(e)
	d := s.SPHSystemData()
	project := func() []r2.Vec {
		pos := d.Positions()
		out := make([]r2.Vec, len(pos))
		for i, p := range pos {
			out[i] = r2.Vec{X: p.X, Y: p.Y}
		}
		return out
	}
	return newRun(cfg, s, d, metrics.Of3(d), project)
}

func run2(cfg *config.Config, s *sph.Solver2, e particles.Emitter2) *Run {
	s.SetEmitter(e)
	d := s.SPHSystemData()
	project := func() []r2.Vec { return slices.Clone(d.Positions()) }
	return newRun(cfg, s, d, metrics.Of2(d), project)
}

func volume3(cfg *config.Config, s *sph.Solver3, shape geom.Shape3) *emitter.VolumeEmitter3 {
	e := emitter.NewVolumeEmitter3(geom.NewSurface3(shape, geom.Identity3()),
		domain3(cfg), s.SPHSystemData().TargetSpacing(), cfg.Seed)
	e.Jitter = cfg.Emitter.Jitter
	e.InitialVelocity = vec3(cfg.Emitter.InitialVelocity)
	return e
}

func volume2(cfg *config.Config, s *sph.Solver2, shape geom.Shape2) *emitter.VolumeEmitter2 {
	e := emitter.NewVolumeEmitter2(geom.NewSurface2(shape, geom.Transform2{}),
		domain2(cfg), s.SPHSystemData().TargetSpacing(), cfg.Seed)
	e.Jitter = cfg.Emitter.Jitter
	e.InitialVelocity = vec2(cfg.Emitter.InitialVelocity)
	return e
}

// buildBlock fills the box [Emitter.Min, Emitter.Max] once.
func buildBlock(cfg *config.Config) (*Run, error) {
	em := cfg.Emitter
	if cfg.Dimension == 2 {
		s, err := solver2(cfg)
		if err != nil {
			return nil, err
		}
		block := &geom.Box2{Bound: r2.Box{Min: vec2(em.Min), Max: vec2(em.Max)}}
		return run2(cfg, s, volume2(cfg, s, block)), nil
	}
	s, err := solver3(cfg)
	if err != nil {
		return nil, err
	}
	block := &geom.Box3{Bound: r3.Box{Min: vec3(em.Min), Max: vec3(em.Max)}}
	return run3(cfg, s, volume3(cfg, s, block)), nil
}

// buildDrop fills a pool block and a sphere of fluid above it.
func buildDrop(cfg *config.Config) (*Run, error) {
	em := cfg.Emitter
	if !(em.Radius > 0) {
		return nil, fmt.Errorf("%w: drop radius %v must be positive", config.ErrInvalidConfig, em.Radius)
	}
	if cfg.Dimension == 2 {
		s, err := solver2(cfg)
		if err != nil {
			return nil, err
		}
		shape := &geom.SurfaceSet2{}
		shape.Add(geom.NewSurface2(&geom.Box2{Bound: r2.Box{Min: vec2(em.Min), Max: vec2(em.Max)}}, geom.Transform2{}))
		shape.Add(geom.NewSurface2(&geom.Sphere2{Center: vec2(em.Center), Radius: em.Radius}, geom.Transform2{}))
		return run2(cfg, s, volume2(cfg, s, shape)), nil
	}
	s, err := solver3(cfg)
	if err != nil {
		return nil, err
	}
	shape := &geom.SurfaceSet3{}
	shape.Add(geom.NewSurface3(&geom.Box3{Bound: r3.Box{Min: vec3(em.Min), Max: vec3(em.Max)}}, geom.Identity3()))
	shape.Add(geom.NewSurface3(&geom.Sphere3{Center: vec3(em.Center), Radius: em.Radius}, geom.Identity3()))
	return run3(cfg, s, volume3(cfg, s, shape)), nil
}

// buildFountain streams particles from Emitter.Origin.
func buildFountain(cfg *config.Config) (*Run, error) {
	em := cfg.Emitter
	if !(em.Rate > 0) || em.MaxParticles <= 0 {
		return nil, fmt.Errorf("%w: fountain needs a positive rate and particle limit", config.ErrInvalidConfig)
	}
	if cfg.Dimension == 2 {
		s, err := solver2(cfg)
		if err != nil {
			return nil, err
		}
		e := emitter.NewPointEmitter2(vec2(em.Origin), vec2(em.Direction), em.Speed,
			em.SpreadAngle, em.Rate, em.MaxParticles, cfg.Seed)
		return run2(cfg, s, e), nil
	}
	s, err := solver3(cfg)
	if err != nil {
		return nil, err
	}
	e := emitter.NewPointEmitter3(vec3(em.Origin), vec3(em.Direction), em.Speed,
		em.SpreadAngle, em.Rate, em.MaxParticles, cfg.Seed)
	return run3(cfg, s, e), nil
}
