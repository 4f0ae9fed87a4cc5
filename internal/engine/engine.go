package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/blobsim/internal/camera"
	"github.com/san-kum/blobsim/internal/field"
	"github.com/san-kum/blobsim/internal/integrators"
	"github.com/san-kum/blobsim/internal/metaball"
	"github.com/san-kum/blobsim/internal/physics"
	"github.com/san-kum/blobsim/internal/settings"
	"github.com/san-kum/blobsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r3"
)

type Engine struct {
	cfg   Config
	clock Clock
	start time.Time

	world   *physics.World
	bodies  []*field.Body
	mouse   *MouseBall
	state   *settings.State
	rig     *camera.Rig
	marcher *surface.Marcher
	synth   *metaball.Synthesizer

	queue Queue
	// pointer starts at the centre of the view, as if the cursor rested
	// there.
	pointer Pointer

	renderer  Renderer
	metrics   []Metric
	observers []Observer

	frame int
	last  FrameStats
}

type Option func(*Engine)

func WithClock(c Clock) Option       { return func(e *Engine) { e.clock = c } }
func WithRenderer(r Renderer) Option { return func(e *Engine) { e.renderer = r } }

// WithCamera passes options through to the camera rig.
func WithCamera(opts ...camera.Option) Option {
	return func(e *Engine) { e.rig = camera.NewRig(e.cfg.FPS, opts...) }
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	integ, _ := integrators.ByName(cfg.Integrator)
	palette, err := field.ParsePalette(cfg.Palette)
	if err != nil {
		return nil, err
	}
	presets := cfg.Presets
	if len(presets) == 0 {
		presets = settings.Builtin()
	}
	state, err := settings.NewState(presets, cfg.StartPreset,
		settings.WithMaxBodies(cfg.MaxBodies),
		settings.WithPresetDuration(cfg.PresetTransition),
		settings.WithTweenDuration(cfg.SliderTween),
	)
	if err != nil {
		return nil, err
	}
	marcher, err := surface.NewMarcher(cfg.Surface)
	if err != nil {
		return nil, err
	}

	dt := cfg.Timestep().Seconds()
	world := physics.NewWorld(r3.Vec{}, physics.WithTimestep(dt), physics.WithIntegrator(integ))
	bodies, err := field.NewPool(world, cfg.MaxBodies, rand.New(rand.NewSource(cfg.Seed)), palette)
	if err != nil {
		return nil, fmt.Errorf("spawning bodies: %w", err)
	}
	mouse, err := NewMouseBall(world)
	if err != nil {
		return nil, fmt.Errorf("mouse ball: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		clock:   SystemClock{},
		world:   world,
		bodies:  bodies,
		mouse:   mouse,
		state:   state,
		marcher: marcher,
		synth:   metaball.New(marcher),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rig == nil {
		e.rig = camera.NewRig(cfg.FPS)
	}
	e.start = e.clock.Now()
	return e, nil
}

// SetRenderer replaces the renderer for the following frames.
func (e *Engine) SetRenderer(r Renderer) { e.renderer = r }

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Push queues an intent for the next frame. Safe for concurrent use.
func (e *Engine) Push(in Intent) { e.queue.Push(in) }

func (e *Engine) Config() Config                     { return e.cfg }
func (e *Engine) State() *settings.State             { return e.state }
func (e *Engine) Settings() settings.Settings        { return e.state.Current() }
func (e *Engine) Rig() *camera.Rig                   { return e.rig }
func (e *Engine) World() *physics.World              { return e.world }
func (e *Engine) Bodies() []*field.Body              { return e.bodies }
func (e *Engine) Mouse() *MouseBall                  { return e.mouse }
func (e *Engine) Marcher() *surface.Marcher          { return e.marcher }
func (e *Engine) Synthesizer() *metaball.Synthesizer { return e.synth }
func (e *Engine) FrameCount() int                    { return e.frame }
func (e *Engine) Last() FrameStats                   { return e.last }

// Elapsed is the time since the engine started, by its clock.
func (e *Engine) Elapsed() float64 {
	return e.clock.Now().Sub(e.start).Seconds()
}

// Frame runs one frame: queued intents, physics, pointer, camera, settings
// interpolation, forces, surface, render and observers.
func (e *Engine) Frame() (FrameStats, error) {
	step := e.cfg.Timestep()
	if adv, ok := e.clock.(interface{ Advance(time.Duration) }); ok {
		adv.Advance(step)
	}
	now := e.clock.Now()
	elapsed := now.Sub(e.start).Seconds()

	var applied, rejected int
	for _, in := range e.queue.Drain() {
		if in.apply(e, now) {
			applied++
		} else {
			rejected++
		}
	}

	if err := e.world.Step(); err != nil {
		return FrameStats{}, fmt.Errorf("frame %d: %w", e.frame, err)
	}

	if hit, ok := e.rig.PointerTarget(e.pointer.X, e.pointer.Y); ok {
		e.mouse.Update(hit)
	}

	e.rig.Update(elapsed, step.Seconds())
	e.state.Advance(now)
	cur := e.state.Current()

	for _, b := range e.bodies {
		b.Update(cur, elapsed)
	}
	n := e.synth.Rebuild(e.bodies, cur, elapsed)

	mesh := e.marcher.Mesh()
	ke, centroid, spread := bodyStats(e.bodies[:n])
	stats := FrameStats{
		Frame:         e.frame,
		Elapsed:       elapsed,
		Preset:        e.state.Preset().Name,
		PresetIndex:   e.state.PresetIndex(),
		Transitioning: e.state.Transitioning(),
		Tweening:      len(e.state.Tweening()),
		Settings:      cur,
		Influences:    n,
		Triangles:     mesh.Triangles(),
		Vertices:      len(mesh.Vertices),
		Truncated:     mesh.Truncated,
		KineticEnergy: ke,
		Centroid:      centroid,
		Spread:        spread,
		Mouse:         e.mouse.Position(),
		Offset:        e.rig.Offset(),
		Applied:       applied,
		Rejected:      rejected,
	}

	if e.renderer != nil {
		scene := &Scene{
			Frame:       e.frame,
			Mesh:        mesh,
			MeshScale:   e.cfg.Surface.Scale,
			BlobOffset:  e.rig.BlobOffset(),
			Mouse:       stats.Mouse,
			MouseRadius: MouseRadius,
			Preset:      stats.Preset,
			Settings:    cur,
			Stats:       stats,
		}
		if err := e.renderer.Render(scene, e.rig); err != nil {
			return stats, fmt.Errorf("render frame %d: %w", e.frame, err)
		}
	}

	for _, m := range e.metrics {
		m.Observe(stats)
	}
	for _, o := range e.observers {
		o.OnFrame(stats)
	}
	e.frame++
	e.last = stats
	return stats, nil
}

// Run advances frames frames, stopping early if ctx is cancelled.
func (e *Engine) Run(ctx context.Context, frames int) (*Result, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", frames)
	}
	res := &Result{
		Frames:  make([]FrameStats, 0, frames),
		Metrics: make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}
		st, err := e.Frame()
		if err != nil {
			return res, err
		}
		res.Frames = append(res.Frames, st)
	}

	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, nil
}
