package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != DefaultScenario {
		t.Errorf("expected scenario %s, got %s", DefaultScenario, cfg.Scenario)
	}
	if cfg.Solver.SpeedOfSound != 100 || cfg.Solver.EOSExponent != 7 || cfg.Solver.PseudoViscosity != 10 {
		t.Errorf("unexpected solver defaults %+v", cfg.Solver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
	if got := cfg.TimeStep(); got != 1/DefaultFPS {
		t.Errorf("expected time step %f, got %f", 1/DefaultFPS, got)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Dimension = 2
	cfg.Searcher = "PointHashGridSearch2"
	cfg.Solver.Viscosity = 0.5
	cfg.Emitter.Origin = Vec{1, 2, 3}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("frames: 10\nsolver:\n  viscosity: 0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Frames != 10 || cfg.Solver.Viscosity != 0.2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Solver.TargetDensity != 1000 || cfg.FPS != DefaultFPS {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("frames: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no scenario", func(c *Config) { c.Scenario = "" }},
		{"dimension", func(c *Config) { c.Dimension = 4 }},
		{"frames", func(c *Config) { c.Frames = -1 }},
		{"fps", func(c *Config) { c.FPS = 0 }},
		{"density", func(c *Config) { c.Solver.TargetDensity = 0 }},
		{"spacing", func(c *Config) { c.Solver.TargetSpacing = -1 }},
		{"kernel", func(c *Config) { c.Solver.RelativeKernelRadius = 0 }},
		{"sub-steps", func(c *Config) { c.Solver.FixedSubSteps = -2 }},
		{"domain", func(c *Config) { c.Collider.Domain = Vec{1, 0, 1} }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Dimension = 2
	cfg.Collider.Domain = Vec{1, 1, 0}
	if err := cfg.Validate(); err != nil {
		t.Errorf("2D config ignores the z extent: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dam-break")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Dimension != 2 {
		t.Errorf("expected 2D dam break, got %d", cfg.Dimension)
	}

	cfg.Frames = 1
	if Presets["dam-break"].Frames == 1 {
		t.Error("GetPreset must return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i, name := range names {
		if i > 0 && names[i-1] > name {
			t.Errorf("presets not sorted: %v", names)
		}
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
