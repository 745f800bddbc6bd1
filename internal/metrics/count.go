package metrics

type ParticleCount struct {
	name  string
	count int
}

func NewParticleCount() *ParticleCount {
	return &ParticleCount{
		name: "particles",
	}
}

func (c *ParticleCount) Name() string {
	return c.name
}

func (c *ParticleCount) Observe(f Fluid, t float64) {
	c.count = f.NumberOfParticles()
}

func (c *ParticleCount) Value() float64 {
	return float64(c.count)
}

func (c *ParticleCount) Reset() {
	c.count = 0
}
