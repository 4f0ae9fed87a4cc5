package metrics

import "github.com/san-kum/blobsim/internal/engine"

// Containment is the fraction of frames whose body spread stayed within
// radius.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s engine.FrameStats) {
	c.samples++
	if s.Spread > c.radius {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
