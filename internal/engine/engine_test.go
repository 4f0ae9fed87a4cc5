package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/blobsim/internal/camera"
	"github.com/san-kum/blobsim/internal/metaball"
	"github.com/san-kum/blobsim/internal/settings"
	"gonum.org/v1/gonum/spatial/r3"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Surface.Resolution = 64
	return cfg
}

type recordingRenderer struct {
	frames    []int
	triangles []int
	err       error
}

func (r *recordingRenderer) Render(scene *Scene, cam *camera.Rig) error {
	r.frames = append(r.frames, scene.Frame)
	r.triangles = append(r.triangles, scene.Mesh.Triangles())
	return r.err
}

type countMetric struct{ frames int }

func (m *countMetric) Name() string       { return "frames" }
func (m *countMetric) Observe(FrameStats) { m.frames++ }
func (m *countMetric) Value() float64     { return float64(m.frames) }
func (m *countMetric) Reset()             { m.frames = 0 }

var _ = Describe("Engine", func() {
	var (
		eng      *Engine
		clock    *ManualClock
		renderer *recordingRenderer
	)

	BeforeEach(func() {
		clock = NewManualClock(time.Unix(0, 0))
		renderer = &recordingRenderer{}
		var err error
		eng, err = New(testConfig(), WithClock(clock), WithRenderer(renderer))
		Expect(err).NotTo(HaveOccurred())
	})

	frames := func(n int) FrameStats {
		var st FrameStats
		for i := 0; i < n; i++ {
			var err error
			st, err = eng.Frame()
			Expect(err).NotTo(HaveOccurred())
		}
		return st
	}

	It("builds the full body pool plus the mouse ball", func() {
		Expect(eng.Bodies()).To(HaveLen(settings.DefaultMaxBodies))
		Expect(eng.World().Bodies()).To(HaveLen(settings.DefaultMaxBodies + 1))
	})

	It("submits exactly the default preset's 31 influences each frame", func() {
		for i := 0; i < 5; i++ {
			st := frames(1)
			Expect(st.Influences).To(Equal(31))
			Expect(eng.Synthesizer().Influences()).To(HaveLen(31))
			for _, inf := range eng.Synthesizer().Influences() {
				Expect(inf.Strength).To(BeNumerically(">=", metaball.MinStrength))
			}
		}
	})

	It("renders every frame in order with a non-empty surface", func() {
		frames(3)
		Expect(renderer.frames).To(Equal([]int{0, 1, 2}))
		Expect(renderer.triangles[0]).To(BeNumerically(">", 0))
	})

	It("fails the frame when the renderer fails", func() {
		renderer.err = errors.New("lost context")
		_, err := eng.Frame()
		Expect(err).To(MatchError(ContainSubstring("lost context")))
	})

	It("advances a manual clock by one timestep per frame", func() {
		st := frames(60)
		Expect(st.Elapsed).To(BeNumerically("~", 1.0, 1e-6))
		Expect(st.Frame).To(Equal(59))
	})

	Describe("intents", func() {
		It("applies intents from many goroutines at the next frame", func() {
			var wg sync.WaitGroup
			for g := 0; g < 10; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 10; i++ {
						eng.Push(Wheel{Delta: 1})
					}
				}()
			}
			wg.Wait()

			st := frames(1)
			Expect(st.Applied).To(Equal(100))
			Expect(eng.Rig().OffsetTarget()).To(BeNumerically("~", 0.2, 1e-12))
			Expect(frames(1).Applied).To(Equal(0))
		})

		It("clamps a mesh count above the pool", func() {
			eng.Push(SetControl{Key: settings.MeshCount, Raw: "200"})
			st := frames(1)
			Expect(st.Settings.MeshCount).To(Equal(80))
			Expect(st.Influences).To(Equal(80))
		})

		It("counts rejected input without touching the settings", func() {
			before := eng.Settings()
			eng.Push(SetControl{Key: settings.MetaballSize, Raw: "abc"})
			eng.Push(SelectPreset{Index: 42})
			eng.Push(ResetControl{Key: "gravity"})
			st := frames(1)
			Expect(st.Rejected).To(Equal(3))
			Expect(st.Settings).To(Equal(before))
		})

		It("lands exactly on a selected preset", func() {
			eng.Push(SelectPreset{Index: 1})
			st := frames(1)
			Expect(st.Transitioning).To(BeTrue())

			st = frames(50)
			Expect(st.Transitioning).To(BeFalse())
			Expect(st.Settings).To(Equal(settings.Builtin()[1].Settings))
			Expect(st.Influences).To(Equal(80))
			Expect(st.Preset).To(Equal("Preset A"))
		})

		It("cancels slider tweens when a preset is selected", func() {
			eng.Push(SetControl{Key: settings.MetaballSize, Raw: "0.9"})
			frames(1)
			eng.Push(ResetControl{Key: settings.MetaballSize})
			Expect(frames(1).Tweening).To(Equal(1))

			eng.Push(NextPreset{})
			st := frames(1)
			Expect(st.Tweening).To(Equal(0))
			Expect(st.PresetIndex).To(Equal(1))
		})

		It("moves the mouse ball to the pointer", func() {
			frames(1)
			centre := eng.Mouse().Position()
			Expect(r3.Norm(r3.Sub(centre, camera.PlaneOrigin))).To(BeNumerically("<", 1))

			eng.Push(Pointer{X: 0.6, Y: 0})
			frames(1)
			moved := eng.Mouse().Position()
			Expect(r3.Norm(r3.Sub(moved, centre))).To(BeNumerically(">", 0.5))
		})
	})

	Describe("Run", func() {
		It("reports metrics over the run", func() {
			m := &countMetric{}
			eng.AddMetric(m)
			var seen int
			eng.AddObserver(ObserverFunc(func(FrameStats) { seen++ }))

			res, err := eng.Run(context.Background(), 12)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(HaveLen(12))
			Expect(res.Metrics).To(HaveKeyWithValue("frames", 12.0))
			Expect(seen).To(Equal(12))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := eng.Run(ctx, 10)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Frames).To(BeEmpty())
		})

		It("rejects a non-positive frame count", func() {
			_, err := eng.Run(context.Background(), 0)
			Expect(err).To(HaveOccurred())
		})

		It("is reproducible from the seed", func() {
			other, err := New(testConfig(), WithClock(NewManualClock(time.Unix(0, 0))))
			Expect(err).NotTo(HaveOccurred())
			a, err := eng.Run(context.Background(), 30)
			Expect(err).NotTo(HaveOccurred())
			b, err := other.Run(context.Background(), 30)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Frames[29].Centroid).To(Equal(b.Frames[29].Centroid))
			Expect(a.Frames[29].Triangles).To(Equal(b.Frames[29].Triangles))
		})

		It("draws the blob together over time", func() {
			first := frames(1)
			last := frames(240)
			Expect(last.Spread).To(BeNumerically("<", first.Spread))
		})
	})

	Describe("configuration", func() {
		It("rejects invalid settings", func() {
			cfg := testConfig()
			cfg.MaxBodies = 0
			_, err := New(cfg)
			Expect(err).To(MatchError(ErrMaxBodies))

			cfg = testConfig()
			cfg.Integrator = "leapfrog"
			_, err = New(cfg)
			Expect(err).To(MatchError(ContainSubstring("unknown integrator")))

			cfg = testConfig()
			cfg.Palette = []string{"not-a-colour"}
			_, err = New(cfg)
			Expect(err).To(HaveOccurred())

			cfg = testConfig()
			cfg.FPS = 0
			_, err = New(cfg)
			Expect(err).To(MatchError(ErrFPS))
		})

		It("uses custom presets and a smaller pool", func() {
			cfg := testConfig()
			cfg.MaxBodies = 20
			cfg.Presets = settings.Builtin()[1:3]
			e, err := New(cfg, WithClock(NewManualClock(time.Unix(0, 0))))
			Expect(err).NotTo(HaveOccurred())
			st, err := e.Frame()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Preset).To(Equal("Preset A"))
			Expect(st.Influences).To(Equal(20))
		})
	})
})

var _ = Describe("Queue", func() {
	It("drains in arrival order", func() {
		var q Queue
		q.Push(NextPreset{})
		q.Push(Wheel{Delta: 3})
		Expect(q.Len()).To(Equal(2))
		Expect(q.Drain()).To(Equal([]Intent{NextPreset{}, Wheel{Delta: 3}}))
		Expect(q.Drain()).To(BeEmpty())
	})
})
