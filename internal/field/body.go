package field

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/blobsim/internal/settings"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rigid is the part of a physics body the force field drives.
type Rigid interface {
	ResetForces()
	AddForce(f r3.Vec)
	Translation() r3.Vec
	Linvel() r3.Vec
}

// Body is one simulated particle. The seeds are drawn once in [-1, 1] and
// never change.
type Body struct {
	Rigid     Rigid
	Size      float64
	Color     colorful.Color
	SizeSeed  float64
	SpeedSeed float64
	SwirlSeed float64
}

// Contributions is the force on a body split by source.
type Contributions struct {
	Recenter r3.Vec
	Boundary r3.Vec
	Swirl    r3.Vec
	Noise    r3.Vec
	Damping  r3.Vec
}

func (c Contributions) Total() r3.Vec {
	sum := r3.Add(c.Recenter, c.Boundary)
	sum = r3.Add(sum, c.Swirl)
	sum = r3.Add(sum, c.Noise)
	return r3.Add(sum, c.Damping)
}

const (
	// NoiseRate scales elapsed seconds into noise phase.
	NoiseRate = 0.6
	// maxPull caps the distance term of the recenter and boundary pulls.
	maxPull = 2.0
)

// Forces evaluates the field for a body at pos moving with vel.
func (b *Body) Forces(pos, vel r3.Vec, s settings.Settings, elapsed float64) Contributions {
	var c Contributions

	distance := r3.Norm(pos)
	var dir r3.Vec
	if distance > 0 {
		dir = r3.Scale(1/distance, pos)
	}
	if distance > s.RecenterDeadZone {
		speedFactor := 1 + s.SpeedVariance*b.SpeedSeed
		c.Recenter = r3.Scale(-s.RecenterForce*speedFactor*math.Min(distance, maxPull), dir)
	}
	if distance > s.BoundaryRadius {
		excess := math.Min(distance-s.BoundaryRadius, maxPull)
		c.Boundary = r3.Scale(-s.BoundaryStrength*excess, dir)
	}

	if s.SwirlStrength > 0 {
		tangent := r3.Vec{X: -pos.Y, Y: pos.X}
		if n := r3.Norm(tangent); n > 0 {
			amp := s.SwirlStrength * (0.5 + 0.5*math.Abs(b.SwirlSeed))
			c.Swirl = r3.Scale(amp/n, tangent)
		}
	}

	if s.NoiseStrength > 0 {
		c.Noise = r3.Scale(s.NoiseStrength, noise(elapsed*NoiseRate, b.SizeSeed, b.SpeedSeed))
	}

	c.Damping = r3.Scale(-s.RecenterDamping, vel)
	return c
}

// Update clears the body's force, applies the field one category at a time
// and returns the display position.
func (b *Body) Update(s settings.Settings, elapsed float64) r3.Vec {
	b.Rigid.ResetForces()
	pos := b.Rigid.Translation()
	c := b.Forces(pos, b.Rigid.Linvel(), s, elapsed)

	for _, f := range [...]r3.Vec{c.Recenter, c.Boundary, c.Swirl, c.Noise} {
		if f != (r3.Vec{}) {
			b.Rigid.AddForce(f)
		}
	}
	b.Rigid.AddForce(c.Damping)

	return Display(pos, s.SpreadRange)
}

// Display maps a physics position into the unit cube sampled by the
// surface synthesizer.
func Display(pos r3.Vec, spreadRange float64) r3.Vec {
	p := r3.Scale(0.1*spreadRange, pos)
	return r3.Add(p, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
}
