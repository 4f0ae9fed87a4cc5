package physics

import (
	"errors"

	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTimestep matches a 60 Hz display.
const DefaultTimestep = 1.0 / 60.0

var (
	ErrUnknownBody   = errors.New("physics: body does not belong to this world")
	ErrInvalidRadius = errors.New("physics: collider radius must be positive")
)

// World steps a set of ball-collider rigid bodies. Dynamic bodies are
// integrated as a dynamo.System whose state is every position followed by
// every velocity.
type World struct {
	gravity     r3.Vec
	dt          float64
	integ       dynamo.Integrator
	restitution float64
	iterations  int
	bodies      []*RigidBody
	dynamic     []*RigidBody
	t           float64
	steps       int
}

type Option func(*World)

func WithTimestep(dt float64) Option {
	return func(w *World) {
		if dt > 0 {
			w.dt = dt
		}
	}
}

func WithIntegrator(integ dynamo.Integrator) Option {
	return func(w *World) {
		if integ != nil {
			w.integ = integ
		}
	}
}

// WithRestitution sets the bounce of contacts, 0 being fully inelastic.
func WithRestitution(e float64) Option {
	return func(w *World) { w.restitution = e }
}

func NewWorld(gravity r3.Vec, opts ...Option) *World {
	w := &World{
		gravity:    gravity,
		dt:         DefaultTimestep,
		integ:      integrators.NewSemiImplicitEuler(),
		iterations: 2,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) CreateRigidBody(desc RigidBodyDesc) *RigidBody {
	b := &RigidBody{
		handle: len(w.bodies),
		kind:   desc.Type,
		pos:    desc.Translation,
		prev:   desc.Translation,
		mass:   1,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// CreateCollider attaches a ball to b and sets its mass from the density.
func (w *World) CreateCollider(desc ColliderDesc, b *RigidBody) error {
	if b == nil || b.handle >= len(w.bodies) || w.bodies[b.handle] != b {
		return ErrUnknownBody
	}
	if desc.Radius <= 0 {
		return ErrInvalidRadius
	}
	b.radius = desc.Radius
	if m := desc.mass(); m > 0 {
		b.mass = m
	}
	return nil
}

func (w *World) Bodies() []*RigidBody { return w.bodies }
func (w *World) Timestep() float64    { return w.dt }
func (w *World) Time() float64        { return w.t }
func (w *World) Steps() int           { return w.steps }

// Step advances the world by one timestep. When integration produces an
// invalid state the dynamic bodies keep their previous state and a
// *dynamo.StepError is returned; kinematic bodies and contacts still update.
func (w *World) Step() error {
	w.dynamic = w.dynamic[:0]
	for _, b := range w.bodies {
		if b.kind == Dynamic {
			w.dynamic = append(w.dynamic, b)
		}
	}

	var stepErr error
	if len(w.dynamic) > 0 {
		x := w.State()
		next := w.integ.Step(w, x, w.t, w.dt)
		if err := dynamo.Validate(w, next); err != nil {
			stepErr = &dynamo.StepError{Step: w.steps, Time: w.t, Wrapped: err}
		} else {
			w.load(next)
		}
	}

	for _, b := range w.bodies {
		if b.kind == KinematicPositionBased {
			b.vel = r3.Scale(1/w.dt, r3.Sub(b.pos, b.prev))
		}
	}

	for i := 0; i < w.iterations; i++ {
		w.resolveContacts()
	}

	for _, b := range w.bodies {
		b.prev = b.pos
	}
	w.t += w.dt
	w.steps++
	return stepErr
}

// StateDim implements dynamo.System over the dynamic bodies.
func (w *World) StateDim() int { return len(w.dynamic) * 6 }

// Derive implements dynamo.System. Forces are held constant over a step.
func (w *World) Derive(x dynamo.State, t float64) dynamo.State {
	n := len(w.dynamic)
	dx := make(dynamo.State, len(x))
	_, vel := x.Halves()
	for i, b := range w.dynamic {
		copy(dx[i*3:i*3+3], vel[i*3:i*3+3])
		acc := r3.Add(r3.Scale(b.inverseMass(), b.force), w.gravity)
		dx[n*3+i*3] = acc.X
		dx[n*3+i*3+1] = acc.Y
		dx[n*3+i*3+2] = acc.Z
	}
	return dx
}

// State packs the dynamic bodies into a position/velocity vector.
func (w *World) State() dynamo.State {
	n := len(w.dynamic)
	x := make(dynamo.State, n*6)
	for i, b := range w.dynamic {
		x[i*3], x[i*3+1], x[i*3+2] = b.pos.X, b.pos.Y, b.pos.Z
		x[n*3+i*3], x[n*3+i*3+1], x[n*3+i*3+2] = b.vel.X, b.vel.Y, b.vel.Z
	}
	return x
}

func (w *World) load(x dynamo.State) {
	pos, vel := x.Halves()
	for i, b := range w.dynamic {
		b.pos = r3.Vec{X: pos[i*3], Y: pos[i*3+1], Z: pos[i*3+2]}
		b.vel = r3.Vec{X: vel[i*3], Y: vel[i*3+1], Z: vel[i*3+2]}
	}
}

// resolveContacts separates overlapping balls by inverse mass and removes
// the approaching normal velocity.
func (w *World) resolveContacts() {
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		if a.radius == 0 {
			continue
		}
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if b.radius == 0 {
				continue
			}
			invA, invB := a.inverseMass(), b.inverseMass()
			invSum := invA + invB
			if invSum == 0 {
				continue
			}

			d := r3.Sub(b.pos, a.pos)
			minDist := a.radius + b.radius
			dist2 := r3.Norm2(d)
			if dist2 >= minDist*minDist {
				continue
			}

			dist := r3.Norm(d)
			normal := r3.Vec{Y: 1}
			if dist > 1e-9 {
				normal = r3.Scale(1/dist, d)
			}
			pen := minDist - dist
			a.pos = r3.Sub(a.pos, r3.Scale(pen*invA/invSum, normal))
			b.pos = r3.Add(b.pos, r3.Scale(pen*invB/invSum, normal))

			vn := r3.Dot(r3.Sub(b.vel, a.vel), normal)
			if vn >= 0 {
				continue
			}
			impulse := -(1 + w.restitution) * vn / invSum
			if a.kind == Dynamic {
				a.vel = r3.Sub(a.vel, r3.Scale(impulse*invA, normal))
			}
			if b.kind == Dynamic {
				b.vel = r3.Add(b.vel, r3.Scale(impulse*invB, normal))
			}
		}
	}
}
