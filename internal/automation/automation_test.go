package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/blobsim/internal/engine"
	"github.com/san-kum/blobsim/internal/settings"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Surface.Resolution = 32
	e, err := engine.New(cfg, engine.WithClock(engine.NewManualClock(time.Unix(0, 0))))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

type influenceMetric struct{ last float64 }

func (m *influenceMetric) Name() string                 { return "influences" }
func (m *influenceMetric) Observe(st engine.FrameStats) { m.last = float64(st.Influences) }
func (m *influenceMetric) Value() float64               { return m.last }
func (m *influenceMetric) Reset()                       { m.last = 0 }

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	yml := `name: shrink
frames: 10
steps:
  - frame: 2
    action: set
    key: meshCount
    value: "10"
  - at: 0.1
    action: next
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "shrink" || sc.Frames != 10 || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[1].At != 0.1 || sc.Steps[1].Action != "next" {
		t.Errorf("unexpected step %+v", sc.Steps[1])
	}
}

func TestStepIntent(t *testing.T) {
	tests := []struct {
		step Step
		want engine.Intent
	}{
		{Step{Action: "preset", Preset: 3}, engine.SelectPreset{Index: 3}},
		{Step{Action: "next"}, engine.NextPreset{}},
		{Step{Action: "set", Key: "GLUESTRENGTH", Value: "40"}, engine.SetControl{Key: settings.GlueStrength, Raw: "40"}},
		{Step{Action: "reset", Key: "spreadRange"}, engine.ResetControl{Key: settings.SpreadRange}},
		{Step{Action: "pointer", X: 0.5, Y: -0.25}, engine.Pointer{X: 0.5, Y: -0.25}},
		{Step{Action: "wheel", Delta: 120}, engine.Wheel{Delta: 120}},
	}
	for _, tt := range tests {
		got, err := tt.step.Intent()
		if err != nil {
			t.Errorf("%s: %v", tt.step.Action, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.step.Action, got, tt.want)
		}
	}

	if _, err := (Step{Action: "jump"}).Intent(); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("err = %v", err)
	}
	if _, err := (Step{Action: "set", Key: "bogus"}).Intent(); err == nil {
		t.Error("accepted an unknown control")
	}
}

func TestSchedule(t *testing.T) {
	sc := &Scenario{Steps: []Step{
		{Frame: 5, Action: "next"},
		{At: 0.05, Action: "wheel", Delta: 1},
		{Action: "preset", Preset: 2},
		{Frame: 3, Action: "wheel", Delta: 2},
	}}
	got, err := sc.schedule(60)
	if err != nil {
		t.Fatal(err)
	}
	wantFrames := []int{0, 3, 3, 5}
	for i, s := range got {
		if s.frame != wantFrames[i] {
			t.Errorf("step %d: frame %d, want %d", i, s.frame, wantFrames[i])
		}
	}
	if got[1].intent != (engine.Wheel{Delta: 1}) {
		t.Errorf("stable order lost: %v", got[1].intent)
	}
}

func TestPlayDeliversStepsOnTheirFrame(t *testing.T) {
	e := newTestEngine(t)
	sc := &Scenario{
		Frames: 6,
		Steps: []Step{
			{Frame: 3, Action: "set", Key: "meshCount", Value: "10"},
			{Frame: 4, Action: "set", Key: "meshCount", Value: "many"},
			{Frame: 50, Action: "next"},
		},
	}

	res, err := Play(context.Background(), e, sc)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Frames) != 6 {
		t.Fatalf("got %d frames", len(res.Frames))
	}
	if res.Frames[2].Influences != 31 {
		t.Errorf("frame 2 influences = %d", res.Frames[2].Influences)
	}
	if res.Frames[3].Influences != 10 || res.Frames[3].Applied != 1 {
		t.Errorf("frame 3: %+v", res.Frames[3])
	}
	if res.Frames[4].Rejected != 1 || res.Frames[4].Influences != 10 {
		t.Errorf("frame 4: %+v", res.Frames[4])
	}
	if res.Frames[5].PresetIndex != 0 {
		t.Errorf("late step delivered")
	}
}

func TestPlayRejectsEmptyScenario(t *testing.T) {
	e := newTestEngine(t)
	if _, err := Play(context.Background(), e, &Scenario{}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("err = %v", err)
	}
	if _, err := Play(context.Background(), e, &Scenario{Frames: 2, Steps: []Step{{Action: "fly"}}}); err == nil {
		t.Error("accepted a bad step")
	}
}

func TestRunSweep(t *testing.T) {
	sw := Sweep{Key: settings.MeshCount, Min: 10, Max: 30, Steps: 3, Frames: 2}
	results, err := RunSweep(context.Background(), sw, func() (*engine.Engine, error) {
		e := newTestEngine(t)
		e.AddMetric(&influenceMetric{})
		return e, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, want := range []float64{10, 20, 30} {
		if results[i].Value != want || results[i].Metrics["influences"] != want {
			t.Errorf("result %d: %+v", i, results[i])
		}
	}

	if _, err := RunSweep(context.Background(), Sweep{Steps: 0}, nil); err == nil {
		t.Error("accepted zero steps")
	}
}

func TestEnsemble(t *testing.T) {
	newEngine := func(seed int64) (*engine.Engine, error) {
		cfg := engine.DefaultConfig()
		cfg.Surface.Resolution = 24
		cfg.Seed = seed
		e, err := engine.New(cfg, engine.WithClock(engine.NewManualClock(time.Unix(0, 0))))
		if err != nil {
			return nil, err
		}
		e.AddMetric(&influenceMetric{})
		return e, nil
	}

	en := Ensemble{Runs: 3, SeedStart: 7, Frames: 5}
	results, err := en.Run(context.Background(), newEngine)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if len(r.Frames) != 5 {
			t.Errorf("run %d: %d frames", i, len(r.Frames))
		}
	}
	if got := MetricSeries(results, "influences"); len(got) != 3 || got[0] != 31 {
		t.Errorf("series = %v", got)
	}

	// same seed twice reproduces the run
	again, err := Ensemble{Runs: 1, SeedStart: 7, Frames: 5}.Run(context.Background(), newEngine)
	if err != nil {
		t.Fatal(err)
	}
	if again[0].Frames[4].Centroid != results[0].Frames[4].Centroid {
		t.Error("seed 7 not reproducible")
	}

	failing := func(seed int64) (*engine.Engine, error) {
		if seed == 8 {
			return nil, errors.New("boom")
		}
		return newEngine(seed)
	}
	if _, err := en.Run(context.Background(), failing); err == nil {
		t.Error("error from one run was lost")
	}
	if _, err := (Ensemble{}).Run(context.Background(), newEngine); err == nil {
		t.Error("accepted zero runs")
	}
}
