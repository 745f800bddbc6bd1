package sph

import (
	"math"

	"github.com/san-kum/jetsim/internal/numeric"
)

// Solver defaults.
const (
	DefaultEOSExponent                = 7.0
	DefaultNegativePressureScale      = 0.0
	DefaultViscosityCoefficient       = 0.01
	DefaultPseudoViscosityCoefficient = 10.0
	DefaultSpeedOfSound               = 100.0
	DefaultTimeStepLimitScale         = 1.0
)

const (
	timeStepLimitBySpeedFactor = 0.4
	timeStepLimitByForceFactor = 0.25
)

// Options configures a new solver. Start from DefaultOptions; values are
// clamped the same way as the corresponding setters. Zero fluid
// parameters (density, spacing, relative kernel radius) take their
// defaults.
type Options struct {
	TargetDensity        float64
	TargetSpacing        float64
	RelativeKernelRadius float64

	EOSExponent                float64
	NegativePressureScale      float64
	ViscosityCoefficient       float64
	PseudoViscosityCoefficient float64
	SpeedOfSound               float64
	TimeStepLimitScale         float64
}

func DefaultOptions() Options {
	return Options{
		TargetDensity:              DefaultTargetDensity,
		TargetSpacing:              DefaultTargetSpacing,
		RelativeKernelRadius:       DefaultRelativeKernelRadius,
		EOSExponent:                DefaultEOSExponent,
		NegativePressureScale:      DefaultNegativePressureScale,
		ViscosityCoefficient:       DefaultViscosityCoefficient,
		PseudoViscosityCoefficient: DefaultPseudoViscosityCoefficient,
		SpeedOfSound:               DefaultSpeedOfSound,
		TimeStepLimitScale:         DefaultTimeStepLimitScale,
	}
}

func (o Options) withDefaults() Options {
	if o.TargetDensity == 0 {
		o.TargetDensity = DefaultTargetDensity
	}
	if o.TargetSpacing == 0 {
		o.TargetSpacing = DefaultTargetSpacing
	}
	if o.RelativeKernelRadius == 0 {
		o.RelativeKernelRadius = DefaultRelativeKernelRadius
	}
	return o
}

// params holds the clamped solver tunables shared by both dimensions.
type params struct {
	eosExponent           float64
	negativePressureScale float64
	viscosity             float64
	pseudoViscosity       float64
	speedOfSound          float64
	timeStepLimitScale    float64
}

func (p *params) apply(o Options) {
	p.SetEOSExponent(o.EOSExponent)
	p.SetNegativePressureScale(o.NegativePressureScale)
	p.SetViscosityCoefficient(o.ViscosityCoefficient)
	p.SetPseudoViscosityCoefficient(o.PseudoViscosityCoefficient)
	p.SetSpeedOfSound(o.SpeedOfSound)
	p.SetTimeStepLimitScale(o.TimeStepLimitScale)
}

func (p *params) EOSExponent() float64 { return p.eosExponent }

// SetEOSExponent clamps e to at least 1.
func (p *params) SetEOSExponent(e float64) { p.eosExponent = numeric.AtLeast(e, 1) }

func (p *params) NegativePressureScale() float64 { return p.negativePressureScale }

// SetNegativePressureScale clamps s to [0, 1]. Negative pressures are
// multiplied by it, so 0 disables attraction between particles.
func (p *params) SetNegativePressureScale(s float64) {
	p.negativePressureScale = numeric.Clamp(s, 0, 1)
}

func (p *params) ViscosityCoefficient() float64 { return p.viscosity }

func (p *params) SetViscosityCoefficient(c float64) { p.viscosity = numeric.AtLeast(c, 0) }

func (p *params) PseudoViscosityCoefficient() float64 { return p.pseudoViscosity }

func (p *params) SetPseudoViscosityCoefficient(c float64) { p.pseudoViscosity = numeric.AtLeast(c, 0) }

func (p *params) SpeedOfSound() float64 { return p.speedOfSound }

// SetSpeedOfSound reverts to DefaultSpeedOfSound for non-positive c.
func (p *params) SetSpeedOfSound(c float64) {
	if !(c > 0) {
		c = DefaultSpeedOfSound
	}
	p.speedOfSound = c
}

func (p *params) TimeStepLimitScale() float64 { return p.timeStepLimitScale }

func (p *params) SetTimeStepLimitScale(s float64) { p.timeStepLimitScale = numeric.AtLeast(s, 0) }

// pressure applies the equation of state.
func (p *params) pressure(density, targetDensity float64) float64 {
	eosScale := targetDensity * p.speedOfSound * p.speedOfSound
	pr := eosScale / p.eosExponent * (math.Pow(density/targetDensity, p.eosExponent) - 1)
	if pr < 0 {
		pr *= p.negativePressureScale
	}
	return pr
}

// subTimeSteps bounds the sub-step by how far sound travels and by how
// far the strongest force can move a particle within a kernel radius.
func (p *params) subTimeSteps(dt, kernelRadius, mass, maxForce float64) int {
	limit := timeStepLimitBySpeedFactor * kernelRadius / p.speedOfSound
	if maxForce > 0 {
		limit = min(limit, timeStepLimitByForceFactor*math.Sqrt(kernelRadius*mass/maxForce))
	}
	desired := p.timeStepLimitScale * limit
	if !(desired > 0) {
		return 1
	}
	return max(numeric.Ceil(dt/desired), 1)
}
