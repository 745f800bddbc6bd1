package config

import "sort"

var Presets = map[string]*Config{
	"dam-break": func() *Config {
		c := DefaultConfig()
		c.Scenario = "block"
		c.Dimension = 2
		c.Frames = 240
		c.Solver.TargetSpacing = 0.02
		c.Emitter.Min = Vec{0.02, 0.02, 0}
		c.Emitter.Max = Vec{0.3, 0.6, 0}
		c.Collider.Domain = Vec{1, 1, 0}
		return c
	}(),
	"dam-break-3d": func() *Config {
		c := DefaultConfig()
		c.Scenario = "block"
		c.Solver.TargetSpacing = 0.05
		c.Emitter.Min = Vec{0.05, 0.05, 0.05}
		c.Emitter.Max = Vec{0.3, 0.6, 0.45}
		c.Collider.Domain = Vec{1, 1, 0.5}
		return c
	}(),
	"drop": func() *Config {
		c := DefaultConfig()
		c.Scenario = "drop"
		c.Solver.TargetSpacing = 0.05
		c.Emitter.Min = Vec{0.05, 0.05, 0.05}
		c.Emitter.Max = Vec{0.95, 0.25, 0.95}
		c.Emitter.Center = Vec{0.5, 0.6, 0.5}
		c.Emitter.Radius = 0.15
		c.Emitter.Jitter = 0.1
		return c
	}(),
	"fountain": func() *Config {
		c := DefaultConfig()
		c.Scenario = "fountain"
		c.Dimension = 2
		c.Frames = 300
		c.Solver.TargetSpacing = 0.02
		c.Emitter.Origin = Vec{0.5, 0.05, 0}
		c.Emitter.Direction = Vec{0, 1, 0}
		c.Emitter.Speed = 3
		c.Emitter.SpreadAngle = 20
		c.Emitter.Rate = 400
		c.Emitter.MaxParticles = 2000
		c.Collider.Domain = Vec{1, 1, 0}
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
