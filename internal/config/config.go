// Package config loads and saves scenario configuration as YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	DefaultScenario = "block"
	DefaultFrames   = 120
	DefaultFPS      = 60.0
	DefaultGravity  = -9.8
	DefaultDrag     = 1e-4
)

// Vec is a point or direction. 2D scenarios ignore the last component.
type Vec [3]float64

type Config struct {
	Scenario  string         `yaml:"scenario"`
	Dimension int            `yaml:"dimension"`
	Frames    int            `yaml:"frames"`
	FPS       float64        `yaml:"fps"`
	Seed      int64          `yaml:"seed"`
	Searcher  string         `yaml:"searcher"`
	Solver    SolverConfig   `yaml:"solver"`
	Emitter   EmitterConfig  `yaml:"emitter"`
	Collider  ColliderConfig `yaml:"collider"`
}

type SolverConfig struct {
	TargetDensity         float64 `yaml:"target_density"`
	TargetSpacing         float64 `yaml:"target_spacing"`
	RelativeKernelRadius  float64 `yaml:"relative_kernel_radius"`
	EOSExponent           float64 `yaml:"eos_exponent"`
	NegativePressureScale float64 `yaml:"negative_pressure_scale"`
	Viscosity             float64 `yaml:"viscosity"`
	PseudoViscosity       float64 `yaml:"pseudo_viscosity"`
	SpeedOfSound          float64 `yaml:"speed_of_sound"`
	TimeStepLimitScale    float64 `yaml:"time_step_limit_scale"`
	Gravity               float64 `yaml:"gravity"`
	Drag                  float64 `yaml:"drag"`
	Restitution           float64 `yaml:"restitution"`
	// FixedSubSteps switches to fixed sub-stepping when positive.
	FixedSubSteps int `yaml:"fixed_sub_steps"`
}

// EmitterConfig describes the fluid source. Block fills the box
// [Min, Max]; Drop adds a sphere to it; Point streams from Origin.
type EmitterConfig struct {
	Min             Vec     `yaml:"min"`
	Max             Vec     `yaml:"max"`
	Center          Vec     `yaml:"center"`
	Radius          float64 `yaml:"radius"`
	Jitter          float64 `yaml:"jitter"`
	InitialVelocity Vec     `yaml:"initial_velocity"`

	Origin       Vec     `yaml:"origin"`
	Direction    Vec     `yaml:"direction"`
	Speed        float64 `yaml:"speed"`
	SpreadAngle  float64 `yaml:"spread_angle"`
	Rate         float64 `yaml:"rate"`
	MaxParticles int     `yaml:"max_particles"`
}

// ColliderConfig is a closed container spanning [0, Domain].
type ColliderConfig struct {
	Domain   Vec     `yaml:"domain"`
	Friction float64 `yaml:"friction"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:  DefaultScenario,
		Dimension: 3,
		Frames:    DefaultFrames,
		FPS:       DefaultFPS,
		Seed:      1,
		Searcher:  "",
		Solver: SolverConfig{
			TargetDensity:         1000,
			TargetSpacing:         0.1,
			RelativeKernelRadius:  1.8,
			EOSExponent:           7,
			NegativePressureScale: 0,
			Viscosity:             0.01,
			PseudoViscosity:       10,
			SpeedOfSound:          100,
			TimeStepLimitScale:    1,
			Gravity:               DefaultGravity,
			Drag:                  DefaultDrag,
		},
		Emitter: EmitterConfig{
			Min: Vec{0.1, 0.1, 0.1},
			Max: Vec{0.5, 0.5, 0.5},
		},
		Collider: ColliderConfig{
			Domain: Vec{1, 1, 1},
		},
	}
}

// Load overlays the YAML file at path on DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy; Config holds only values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// TimeStep is the duration of one frame in seconds.
func (c *Config) TimeStep() float64 { return 1 / c.FPS }

func (c *Config) Validate() error {
	switch {
	case c.Scenario == "":
		return fmt.Errorf("%w: missing scenario", ErrInvalidConfig)
	case c.Dimension != 2 && c.Dimension != 3:
		return fmt.Errorf("%w: dimension %d, want 2 or 3", ErrInvalidConfig, c.Dimension)
	case c.Frames < 0:
		return fmt.Errorf("%w: negative frame count %d", ErrInvalidConfig, c.Frames)
	case !(c.FPS > 0):
		return fmt.Errorf("%w: fps %v must be positive", ErrInvalidConfig, c.FPS)
	case !(c.Solver.TargetDensity > 0):
		return fmt.Errorf("%w: target density %v must be positive", ErrInvalidConfig, c.Solver.TargetDensity)
	case !(c.Solver.TargetSpacing > 0):
		return fmt.Errorf("%w: target spacing %v must be positive", ErrInvalidConfig, c.Solver.TargetSpacing)
	case !(c.Solver.RelativeKernelRadius > 0):
		return fmt.Errorf("%w: relative kernel radius %v must be positive",
			ErrInvalidConfig, c.Solver.RelativeKernelRadius)
	case c.Solver.FixedSubSteps < 0:
		return fmt.Errorf("%w: negative fixed sub-steps %d", ErrInvalidConfig, c.Solver.FixedSubSteps)
	}
	for i := 0; i < c.Dimension; i++ {
		if !(c.Collider.Domain[i] > 0) {
			return fmt.Errorf("%w: domain %v must be positive", ErrInvalidConfig, c.Collider.Domain)
		}
	}
	return nil
}
