package field

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/blobsim/internal/physics"
	"github.com/san-kum/blobsim/internal/settings"
	"gonum.org/v1/gonum/spatial/r3"
)

type fakeRigid struct {
	pos, vel r3.Vec
	force    r3.Vec
	resets   int
	adds     int
}

func (f *fakeRigid) ResetForces()        { f.force = r3.Vec{}; f.resets++ }
func (f *fakeRigid) AddForce(v r3.Vec)   { f.force = r3.Add(f.force, v); f.adds++ }
func (f *fakeRigid) Translation() r3.Vec { return f.pos }
func (f *fakeRigid) Linvel() r3.Vec      { return f.vel }

func quiet() settings.Settings {
	return settings.Settings{MeshCount: 1, SpreadRange: 1, BoundaryRadius: 100}
}

func approx(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= tol
}

func TestRecenterDeadZone(t *testing.T) {
	s := quiet()
	s.RecenterForce = 0.9
	s.RecenterDeadZone = 0.05
	b := &Body{SpeedSeed: 0.5}

	c := b.Forces(r3.Vec{X: 0.05}, r3.Vec{}, s, 0)
	if c.Recenter != (r3.Vec{}) {
		t.Errorf("force at dead zone edge: %v", c.Recenter)
	}

	c = b.Forces(r3.Vec{X: 1}, r3.Vec{}, s, 0)
	want := r3.Vec{X: -0.9}
	if !approx(c.Recenter, want, 1e-12) {
		t.Errorf("recenter = %v, want %v", c.Recenter, want)
	}
}

func TestRecenterSpeedFactorAndCap(t *testing.T) {
	s := quiet()
	s.RecenterForce = 0.5
	s.SpeedVariance = 0.4
	b := &Body{SpeedSeed: -0.5}

	c := b.Forces(r3.Vec{Y: 5}, r3.Vec{}, s, 0)
	want := r3.Vec{Y: -0.5 * (1 - 0.2) * 2}
	if !approx(c.Recenter, want, 1e-12) {
		t.Errorf("recenter = %v, want %v", c.Recenter, want)
	}
}

func TestBoundary(t *testing.T) {
	s := quiet()
	s.BoundaryRadius = 2.5
	s.BoundaryStrength = 1

	b := &Body{}
	if c := b.Forces(r3.Vec{Z: 2.5}, r3.Vec{}, s, 0); c.Boundary != (r3.Vec{}) {
		t.Errorf("boundary force on the shell: %v", c.Boundary)
	}
	c := b.Forces(r3.Vec{Z: 3}, r3.Vec{}, s, 0)
	if !approx(c.Boundary, r3.Vec{Z: -0.5}, 1e-12) {
		t.Errorf("boundary = %v", c.Boundary)
	}
	c = b.Forces(r3.Vec{Z: -10}, r3.Vec{}, s, 0)
	if !approx(c.Boundary, r3.Vec{Z: 2}, 1e-12) {
		t.Errorf("boundary not capped: %v", c.Boundary)
	}
}

func TestSwirl(t *testing.T) {
	s := quiet()
	s.SwirlStrength = 0.8
	b := &Body{SwirlSeed: -0.5}

	pos := r3.Vec{X: 1, Y: 1, Z: 0.3}
	c := b.Forces(pos, r3.Vec{}, s, 0)
	want := 0.8 * (0.5 + 0.25)
	if math.Abs(r3.Norm(c.Swirl)-want) > 1e-12 {
		t.Errorf("|swirl| = %v, want %v", r3.Norm(c.Swirl), want)
	}
	if math.Abs(r3.Dot(c.Swirl, pos)) > 1e-12 || c.Swirl.Z != 0 {
		t.Errorf("swirl not tangential: %v", c.Swirl)
	}

	if c := b.Forces(r3.Vec{Z: 1}, r3.Vec{}, s, 0); c.Swirl != (r3.Vec{}) {
		t.Errorf("swirl on the axis: %v", c.Swirl)
	}
}

func TestNoiseBoundedAndContinuous(t *testing.T) {
	s := quiet()
	s.NoiseStrength = 0.7
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 50; i++ {
		b := &Body{SizeSeed: seed(rng), SpeedSeed: seed(rng)}
		prev := b.Forces(r3.Vec{}, r3.Vec{}, s, 0).Noise
		for step := 1; step < 400; step++ {
			elapsed := float64(step) / 60
			n := b.Forces(r3.Vec{}, r3.Vec{}, s, elapsed).Noise
			for _, v := range []float64{n.X, n.Y, n.Z} {
				if math.Abs(v) > s.NoiseStrength+1e-12 {
					t.Fatalf("noise component %v exceeds %v", v, s.NoiseStrength)
				}
			}
			if r3.Norm(r3.Sub(n, prev)) > 0.05 {
				t.Fatalf("noise jumped from %v to %v", prev, n)
			}
			prev = n
		}
	}

	s.NoiseStrength = 0
	if c := (&Body{SizeSeed: 0.3}).Forces(r3.Vec{}, r3.Vec{}, s, 4); c.Noise != (r3.Vec{}) {
		t.Errorf("noise with zero strength: %v", c.Noise)
	}
}

func TestDampingAlwaysApplied(t *testing.T) {
	s := quiet()
	s.RecenterDamping = 0.4
	c := (&Body{}).Forces(r3.Vec{}, r3.Vec{X: 1, Y: -2}, s, 0)
	if !approx(c.Damping, r3.Vec{X: -0.4, Y: 0.8}, 1e-12) {
		t.Errorf("damping = %v", c.Damping)
	}
	if !approx(c.Total(), c.Damping, 1e-12) {
		t.Errorf("total = %v", c.Total())
	}
}

func TestUpdateResetsThenApplies(t *testing.T) {
	s := settings.Builtin()[0].Settings
	rigid := &fakeRigid{pos: r3.Vec{X: 3, Y: 0.5, Z: -0.2}, vel: r3.Vec{X: 0.1}, force: r3.Vec{X: 99}}
	b := &Body{Rigid: rigid, SizeSeed: 0.2, SpeedSeed: -0.1, SwirlSeed: 0.9}

	got := b.Update(s, 1.5)

	if rigid.resets != 1 {
		t.Errorf("resets = %d", rigid.resets)
	}
	if rigid.adds != 5 {
		t.Errorf("force calls = %d, want one per category", rigid.adds)
	}
	want := b.Forces(rigid.pos, rigid.vel, s, 1.5).Total()
	if !approx(rigid.force, want, 1e-12) {
		t.Errorf("force = %v, want %v", rigid.force, want)
	}
	if !approx(got, Display(rigid.pos, s.SpreadRange), 0) {
		t.Errorf("display = %v", got)
	}

	b.Update(s, 1.5)
	if !approx(rigid.force, want, 1e-12) {
		t.Errorf("forces accumulated across updates: %v", rigid.force)
	}
}

func TestDisplay(t *testing.T) {
	got := Display(r3.Vec{X: 1, Y: -2, Z: 0}, 0.75)
	want := r3.Vec{X: 0.575, Y: 0.35, Z: 0.5}
	if !approx(got, want, 1e-12) {
		t.Errorf("Display = %v, want %v", got, want)
	}
}

func TestZeroStrengthsKeepBodyStill(t *testing.T) {
	world := physics.NewWorld(r3.Vec{})
	rigid := world.CreateRigidBody(physics.DynamicDesc().SetTranslation(0.7, -0.3, 1.1))
	if err := world.CreateCollider(physics.Ball(BodyRadius).SetDensity(BodyDensity), rigid); err != nil {
		t.Fatal(err)
	}
	b := &Body{Rigid: rigid, SizeSeed: 0.4, SpeedSeed: -0.6, SwirlSeed: 0.1}
	s := settings.Settings{MeshCount: 1, SpreadRange: 1, RecenterDamping: 0.4, BoundaryRadius: 2.5}

	start := rigid.Translation()
	for i := 0; i < 120; i++ {
		b.Update(s, float64(i)/60)
		if err := world.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if got := rigid.Translation(); got != start {
		t.Errorf("body moved from %v to %v", start, got)
	}
}

func TestNewPool(t *testing.T) {
	palette, err := ParsePalette(DefaultPalette)
	if err != nil {
		t.Fatal(err)
	}
	world := physics.NewWorld(r3.Vec{})
	bodies, err := NewPool(world, 80, rand.New(rand.NewSource(1)), palette)
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 80 || len(world.Bodies()) != 80 {
		t.Fatalf("pool size %d, world size %d", len(bodies), len(world.Bodies()))
	}

	for i, b := range bodies {
		p := b.Rigid.Translation()
		if math.Abs(p.X) > 3 || math.Abs(p.Z) > 3 || p.Y < 0 || p.Y > 6 {
			t.Errorf("body %d spawned at %v", i, p)
		}
		for _, s := range []float64{b.SizeSeed, b.SpeedSeed, b.SwirlSeed} {
			if s < -1 || s > 1 {
				t.Errorf("body %d seed %v", i, s)
			}
		}
		if !inPalette(b.Color, palette) {
			t.Errorf("body %d colour %v not in palette", i, b.Color.Hex())
		}
	}

	again, _ := NewPool(physics.NewWorld(r3.Vec{}), 80, rand.New(rand.NewSource(1)), palette)
	if again[17].SizeSeed != bodies[17].SizeSeed {
		t.Error("pool not reproducible from seed")
	}
}

func inPalette(c colorful.Color, palette []colorful.Color) bool {
	for _, p := range palette {
		if p == c {
			return true
		}
	}
	return false
}

func TestParsePalette(t *testing.T) {
	if _, err := ParsePalette(nil); err != ErrEmptyPalette {
		t.Errorf("err = %v", err)
	}
	if _, err := ParsePalette([]string{"#0067b1", "blue"}); err == nil {
		t.Error("accepted a bad colour")
	}
	_, err := NewPool(physics.NewWorld(r3.Vec{}), 3, rand.New(rand.NewSource(1)), nil)
	if err != ErrEmptyPalette {
		t.Errorf("NewPool err = %v", err)
	}
}
