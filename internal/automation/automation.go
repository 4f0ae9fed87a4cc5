package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/san-kum/blobsim/internal/engine"
	"github.com/san-kum/blobsim/internal/settings"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownAction = errors.New("automation: unknown action")
	ErrNoFrames      = errors.New("automation: scenario has no frames")
)

// Scenario is a scripted headless session: a frame count and intents to
// inject at given frames.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Preset      string `yaml:"preset"`
	Frames      int    `yaml:"frames"`
	Steps       []Step `yaml:"steps"`
}

// Step is one scripted intent. At, in seconds, is converted to a frame
// when Frame is zero.
type Step struct {
	Frame  int     `yaml:"frame"`
	At     float64 `yaml:"at"`
	Action string  `yaml:"action"`
	Preset int     `yaml:"preset"`
	Key    string  `yaml:"key"`
	Value  string  `yaml:"value"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Delta  float64 `yaml:"delta"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Intent converts the step into an engine intent.
func (s Step) Intent() (engine.Intent, error) {
	switch s.Action {
	case "preset":
		return engine.SelectPreset{Index: s.Preset}, nil
	case "next":
		return engine.NextPreset{}, nil
	case "set":
		k, ok := settings.ParseKey(s.Key)
		if !ok {
			return nil, fmt.Errorf("unknown control %q", s.Key)
		}
		return engine.SetControl{Key: k, Raw: s.Value}, nil
	case "reset":
		k, ok := settings.ParseKey(s.Key)
		if !ok {
			return nil, fmt.Errorf("unknown control %q", s.Key)
		}
		return engine.ResetControl{Key: k}, nil
	case "pointer":
		return engine.Pointer{X: s.X, Y: s.Y}, nil
	case "wheel":
		return engine.Wheel{Delta: s.Delta}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, s.Action)
}

type scheduled struct {
	frame  int
	intent engine.Intent
}

// schedule resolves every step to a frame index at the given rate, in
// frame order. Steps sharing a frame keep their file order.
func (sc *Scenario) schedule(fps int) ([]scheduled, error) {
	out := make([]scheduled, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		in, err := st.Intent()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		frame := st.Frame
		if frame == 0 && st.At > 0 {
			frame = int(math.Round(st.At * float64(fps)))
		}
		if frame < 0 {
			frame = 0
		}
		out = append(out, scheduled{frame: frame, intent: in})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].frame < out[j].frame })
	return out, nil
}

// player pushes scheduled intents so that each lands in its frame.
type player struct {
	e     *engine.Engine
	queue []scheduled
}

func (p *player) pushUpTo(frame int) {
	for len(p.queue) > 0 && p.queue[0].frame <= frame {
		p.e.Push(p.queue[0].intent)
		p.queue = p.queue[1:]
	}
}

func (p *player) OnFrame(st engine.FrameStats) { p.pushUpTo(st.Frame + 1) }

// Play runs the scenario on e. Steps scheduled past the last frame are
// never delivered.
func Play(ctx context.Context, e *engine.Engine, sc *Scenario) (*engine.Result, error) {
	if sc.Frames <= 0 {
		return nil, ErrNoFrames
	}
	steps, err := sc.schedule(e.Config().FPS)
	if err != nil {
		return nil, err
	}
	p := &player{e: e, queue: steps}
	p.pushUpTo(e.FrameCount())
	e.AddObserver(p)
	return e.Run(ctx, sc.Frames)
}

// Sweep runs one session per value of a control and reports the metrics
// of each.
type Sweep struct {
	Key    settings.Key
	Min    float64
	Max    float64
	Steps  int
	Frames int
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

// RunSweep builds a fresh engine per value with newEngine and pins the
// control with a direct write before the first frame.
func RunSweep(ctx context.Context, sw Sweep, newEngine func() (*engine.Engine, error)) ([]SweepResult, error) {
	if sw.Steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sw.Steps)
	}
	results := make([]SweepResult, 0, sw.Steps)
	step := 0.0
	if sw.Steps > 1 {
		step = (sw.Max - sw.Min) / float64(sw.Steps-1)
	}

	for i := 0; i < sw.Steps; i++ {
		v := sw.Min + float64(i)*step
		e, err := newEngine()
		if err != nil {
			return results, err
		}
		e.Push(engine.SetControl{Key: sw.Key, Raw: strconv.FormatFloat(v, 'g', -1, 64)})
		res, err := e.Run(ctx, sw.Frames)
		if err != nil {
			return results, fmt.Errorf("sweep %s=%g: %w", sw.Key, v, err)
		}
		results = append(results, SweepResult{Value: v, Metrics: res.Metrics})
	}
	return results, nil
}
