package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type BodyType int

const (
	Dynamic BodyType = iota
	// KinematicPositionBased bodies are moved by SetTranslation only and
	// push dynamic bodies without being pushed back.
	KinematicPositionBased
	Fixed
)

func (t BodyType) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case KinematicPositionBased:
		return "kinematic"
	case Fixed:
		return "fixed"
	}
	return "unknown"
}

// RigidBodyDesc describes a body before it is inserted into a World.
type RigidBodyDesc struct {
	Type        BodyType
	Translation r3.Vec
}

func DynamicDesc() RigidBodyDesc                { return RigidBodyDesc{Type: Dynamic} }
func KinematicPositionBasedDesc() RigidBodyDesc { return RigidBodyDesc{Type: KinematicPositionBased} }
func FixedDesc() RigidBodyDesc                  { return RigidBodyDesc{Type: Fixed} }

func (d RigidBodyDesc) SetTranslation(x, y, z float64) RigidBodyDesc {
	d.Translation = r3.Vec{X: x, Y: y, Z: z}
	return d
}

// ColliderDesc is a ball collider. Density sets the owning body's mass.
type ColliderDesc struct {
	Radius  float64
	Density float64
}

func Ball(radius float64) ColliderDesc {
	return ColliderDesc{Radius: radius, Density: 1}
}

func (c ColliderDesc) SetDensity(density float64) ColliderDesc {
	c.Density = density
	return c
}

func (c ColliderDesc) mass() float64 {
	return c.Density * 4.0 / 3.0 * math.Pi * c.Radius * c.Radius * c.Radius
}

// RigidBody is a handle into a World. Forces accumulate until ResetForces.
type RigidBody struct {
	handle int
	kind   BodyType
	pos    r3.Vec
	prev   r3.Vec
	vel    r3.Vec
	force  r3.Vec
	radius float64
	mass   float64
}

func (b *RigidBody) Handle() int     { return b.handle }
func (b *RigidBody) Type() BodyType  { return b.kind }
func (b *RigidBody) Radius() float64 { return b.radius }
func (b *RigidBody) Mass() float64   { return b.mass }

func (b *RigidBody) ResetForces()        { b.force = r3.Vec{} }
func (b *RigidBody) AddForce(f r3.Vec)   { b.force = r3.Add(b.force, f) }
func (b *RigidBody) Force() r3.Vec       { return b.force }
func (b *RigidBody) Translation() r3.Vec { return b.pos }
func (b *RigidBody) Linvel() r3.Vec      { return b.vel }

// SetTranslation teleports the body. A kinematic body derives its velocity
// from the distance moved since the last step.
func (b *RigidBody) SetTranslation(p r3.Vec) {
	b.pos = p
}

func (b *RigidBody) SetLinvel(v r3.Vec) {
	if b.kind == Dynamic {
		b.vel = v
	}
}

func (b *RigidBody) inverseMass() float64 {
	if b.kind != Dynamic || b.mass <= 0 {
		return 0
	}
	return 1 / b.mass
}
