// Package camera is the orbiting view of the blob: auto-rotation with a
// slow pitch and roll sway, pointer rays against a camera-facing plane, and
// a spring-smoothed blob offset along the view direction.
package camera

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultDistance   = 5.0
	DefaultFov        = 75.0
	DefaultAutoRotate = 1.5
	// WheelScale converts wheel units into blob offset.
	WheelScale = 0.002
	MaxOffset  = 4.0
	// PlaneHalfExtent bounds the pointer plane on each of its axes.
	PlaneHalfExtent = 24.0
)

// PlaneOrigin is where the pointer plane is anchored.
var PlaneOrigin = r3.Vec{Z: 0.2}

type Rig struct {
	Target     r3.Vec
	Distance   float64
	Fov        float64 // degrees
	Aspect     float64
	Near, Far  float64
	AutoRotate float64 // orbit speed, 1 turn per 60 s per unit
	Sway       bool

	azimuth float64

	spring       harmonica.Spring
	offsetTarget float64
	offset       float64
	offsetVel    float64

	eye, forward, up, right r3.Vec
	view, proj              mgl64.Mat4
}

type Option func(*Rig)

func WithAspect(a float64) Option     { return func(r *Rig) { r.Aspect = a } }
func WithDistance(d float64) Option   { return func(r *Rig) { r.Distance = d } }
func WithAutoRotate(s float64) Option { return func(r *Rig) { r.AutoRotate = s } }
func WithSway(on bool) Option         { return func(r *Rig) { r.Sway = on } }

// NewRig builds a rig whose spring is tuned for fps updates per second.
func NewRig(fps int, opts ...Option) *Rig {
	r := &Rig{
		Distance:   DefaultDistance,
		Fov:        DefaultFov,
		Aspect:     1,
		Near:       0.1,
		Far:        1000,
		AutoRotate: DefaultAutoRotate,
		Sway:       true,
		spring:     harmonica.NewSpring(harmonica.FPS(fps), 6, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Update(0, 0)
	return r
}

// Wheel moves the requested blob offset by delta wheel units.
func (r *Rig) Wheel(delta float64) {
	r.offsetTarget = math.Max(-MaxOffset, math.Min(MaxOffset, r.offsetTarget+delta*WheelScale))
}

func (r *Rig) OffsetTarget() float64 { return r.offsetTarget }
func (r *Rig) Offset() float64       { return r.offset }

// Update advances the orbit by dt seconds and recomputes the matrices for
// the sway at elapsed seconds. The blob offset spring takes one step.
func (r *Rig) Update(elapsed, dt float64) {
	r.azimuth += dt * r.AutoRotate * 2 * math.Pi / 60
	r.offset, r.offsetVel = r.spring.Update(r.offset, r.offsetVel, r.offsetTarget)

	r.eye = r3.Add(r.Target, r3.Vec{
		X: r.Distance * math.Sin(r.azimuth),
		Z: r.Distance * math.Cos(r.azimuth),
	})
	forward := vec3(r3.Unit(r3.Sub(r.Target, r.eye)))
	worldUp := mgl64.Vec3{0, 1, 0}
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward)

	if r.Sway {
		pitch, roll := sway(elapsed)
		q := mgl64.QuatRotate(pitch, right)
		forward = q.Rotate(forward)
		up = q.Rotate(up)
		up = mgl64.QuatRotate(roll, forward).Rotate(up)
		right = forward.Cross(up).Normalize()
	}

	r.forward, r.up, r.right = fromVec3(forward), fromVec3(up), fromVec3(right)
	eye := vec3(r.eye)
	r.view = mgl64.LookAtV(eye, eye.Add(forward), up)
	r.proj = mgl64.Perspective(mgl64.DegToRad(r.Fov), r.Aspect, r.Near, r.Far)
}

// sway is the pitch and roll, in radians, layered on the orbit.
func sway(t float64) (pitch, roll float64) {
	wave := func(deg, period float64) float64 {
		return mgl64.DegToRad(deg) * math.Cos(t*2*math.Pi/period)
	}
	pitch = mgl64.DegToRad(-8) + wave(0.6, 5) + wave(0.9, 3) + wave(0.5, 7) + wave(0.35, 1)
	roll = wave(0.6, 5) + wave(0.35, 11)
	return pitch, roll
}

func (r *Rig) Eye() r3.Vec                { return r.eye }
func (r *Rig) Forward() r3.Vec            { return r.forward }
func (r *Rig) Up() r3.Vec                 { return r.up }
func (r *Rig) Right() r3.Vec              { return r.right }
func (r *Rig) View() mgl64.Mat4           { return r.view }
func (r *Rig) Projection() mgl64.Mat4     { return r.proj }
func (r *Rig) ViewProjection() mgl64.Mat4 { return r.proj.Mul4(r.view) }

// BlobOffset is the translation applied to the blob surface.
func (r *Rig) BlobOffset() r3.Vec {
	return r3.Scale(r.offset, r.forward)
}

// Ray returns the world-space ray through the pointer at normalized device
// coordinates (x right, y up, both in [-1, 1]).
func (r *Rig) Ray(x, y float64) (origin, dir r3.Vec) {
	inv := r.ViewProjection().Inv()
	near := unproject(inv, mgl64.Vec4{x, y, -1, 1})
	far := unproject(inv, mgl64.Vec4{x, y, 1, 1})
	return fromVec3(near), r3.Unit(fromVec3(far.Sub(near)))
}

// PointerTarget intersects the pointer ray with the plane through
// PlaneOrigin facing the camera. It reports false when the ray misses the
// plane's extent.
func (r *Rig) PointerTarget(x, y float64) (r3.Vec, bool) {
	origin, dir := r.Ray(x, y)
	normal := r3.Scale(-1, r.forward)
	den := r3.Dot(dir, normal)
	if math.Abs(den) < 1e-9 {
		return r3.Vec{}, false
	}
	t := r3.Dot(r3.Sub(PlaneOrigin, origin), normal) / den
	if t < 0 {
		return r3.Vec{}, false
	}
	hit := r3.Add(origin, r3.Scale(t, dir))
	local := r3.Sub(hit, PlaneOrigin)
	if math.Abs(r3.Dot(local, r.right)) > PlaneHalfExtent || math.Abs(r3.Dot(local, r.up)) > PlaneHalfExtent {
		return r3.Vec{}, false
	}
	return hit, true
}

// Project maps a world point to normalized device coordinates. It reports
// false for points behind the camera.
func (r *Rig) Project(p r3.Vec) (ndc r3.Vec, ok bool) {
	clip := r.ViewProjection().Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	if clip[3] <= 0 {
		return r3.Vec{}, false
	}
	return fromVec3(clip.Vec3().Mul(1 / clip[3])), true
}

func unproject(inv mgl64.Mat4, v mgl64.Vec4) mgl64.Vec3 {
	w := inv.Mul4x1(v)
	return w.Vec3().Mul(1 / w[3])
}

func vec3(v r3.Vec) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func fromVec3(v mgl64.Vec3) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }
