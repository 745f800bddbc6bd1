package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/config"
	"github.com/san-kum/jetsim/internal/neighbor"
)

func smallConfig(dim int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Dimension = dim
	cfg.Frames = 3
	cfg.Solver.TargetSpacing = 0.1
	cfg.Emitter.Min = config.Vec{0.2, 0.2, 0.2}
	cfg.Emitter.Max = config.Vec{0.5, 0.5, 0.5}
	return cfg
}

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"block", "drop", "fountain"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
		}
	}
}

func TestNewErrors(t *testing.T) {
	cfg := smallConfig(3)
	cfg.Scenario = "nope"
	if _, err := New(cfg); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("expected ErrUnknownScenario, got %v", err)
	}

	cfg = smallConfig(3)
	cfg.FPS = 0
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	cfg = smallConfig(2)
	cfg.Scenario = "drop"
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for a drop without radius, got %v", err)
	}

	cfg = smallConfig(3)
	cfg.Searcher = "nope"
	if _, err := New(cfg); !errors.Is(err, neighbor.ErrUnknownSearcher) {
		t.Errorf("expected ErrUnknownSearcher, got %v", err)
	}
}

func TestBlockRun(t *testing.T) {
	for _, dim := range []int{2, 3} {
		cfg := smallConfig(dim)
		r, err := New(cfg)
		if err != nil {
			t.Fatalf("%dD: %v", dim, err)
		}
		if err := r.RunFrames(context.Background(), cfg.Frames); err != nil {
			t.Fatalf("%dD: run failed: %v", dim, err)
		}

		if r.NumberOfParticles() == 0 {
			t.Errorf("%dD: expected the block to be filled", dim)
		}
		if got := r.Frame().Index; got != uint(cfg.Frames) {
			t.Errorf("%dD: expected next frame %d, got %d", dim, cfg.Frames, got)
		}
		if got := len(r.Recorder.History("particles")); got != cfg.Frames {
			t.Errorf("%dD: expected %d samples, got %d", dim, cfg.Frames, got)
		}
		if r.Recorder.Values()["stability"] != 1 {
			t.Errorf("%dD: run went unstable", dim)
		}
	}
}

func TestRunCancel(t *testing.T) {
	r, err := New(smallConfig(2))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.RunFrames(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if r.Frame().Index != 0 {
		t.Error("a cancelled run must not advance")
	}
}

func TestDropAndFountain(t *testing.T) {
	drop := smallConfig(3)
	drop.Scenario = "drop"
	drop.Emitter.Min = config.Vec{0.1, 0.1, 0.1}
	drop.Emitter.Max = config.Vec{0.9, 0.3, 0.9}
	drop.Emitter.Center = config.Vec{0.5, 0.6, 0.5}
	drop.Emitter.Radius = 0.15

	fountain := smallConfig(2)
	fountain.Scenario = "fountain"
	fountain.Emitter.Origin = config.Vec{0.5, 0.1, 0}
	fountain.Emitter.Direction = config.Vec{0, 1, 0}
	fountain.Emitter.Speed = 1
	fountain.Emitter.Rate = 120
	fountain.Emitter.MaxParticles = 5

	for _, cfg := range []*config.Config{drop, fountain} {
		r, err := New(cfg)
		if err != nil {
			t.Fatalf("%s: %v", cfg.Scenario, err)
		}
		if err := r.RunFrames(context.Background(), 2); err != nil {
			t.Fatalf("%s: %v", cfg.Scenario, err)
		}
		if r.NumberOfParticles() == 0 {
			t.Errorf("%s: expected particles", cfg.Scenario)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	cfg := smallConfig(2)
	r, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Step(); err != nil {
		t.Fatal(err)
	}
	blob, err := r.Fluid.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	restored, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := restored.Fluid.Deserialize(blob); err != nil {
		t.Fatal(err)
	}
	if restored.NumberOfParticles() != r.NumberOfParticles() {
		t.Errorf("expected %d particles, got %d", r.NumberOfParticles(), restored.NumberOfParticles())
	}
}

func TestEnsemble(t *testing.T) {
	a, err := New(smallConfig(2))
	if err != nil {
		t.Fatal(err)
	}
	cfg := smallConfig(2)
	cfg.Searcher = neighbor.ListSearch2Name
	b, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	e := anim.NewEnsemble(a, b)
	if err := e.Run(context.Background(), anim.NewFrame(2, cfg.TimeStep())); err != nil {
		t.Fatal(err)
	}
	if a.NumberOfParticles() != b.NumberOfParticles() {
		t.Errorf("searchers disagree on particle count: %d vs %d", a.NumberOfParticles(), b.NumberOfParticles())
	}
	if a.Frame().Index != 3 || b.Frame().Index != 3 {
		t.Errorf("expected both runs at frame 3, got %d and %d", a.Frame().Index, b.Frame().Index)
	}
}

func TestProjectedPositions(t *testing.T) {
	r, err := New(smallConfig(3))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Step(); err != nil {
		t.Fatal(err)
	}
	pts := r.ProjectedPositions()
	if len(pts) != r.NumberOfParticles() {
		t.Fatalf("expected %d points, got %d", r.NumberOfParticles(), len(pts))
	}
	domain := r.Domain()
	for _, p := range pts {
		if p.X < domain.Min.X || p.X > domain.Max.X || p.Y < domain.Min.Y || p.Y > domain.Max.Y {
			t.Errorf("%v outside %v", p, domain)
		}
	}
}
