package settings

import (
	"math"
	"testing"
	"time"
)

func TestEase(t *testing.T) {
	if Ease(0) != 0 || Ease(1) != 1 || Ease(0.5) != 0.75 {
		t.Errorf("Ease endpoints wrong: %v %v %v", Ease(0), Ease(0.5), Ease(1))
	}
	prev := Ease(0)
	for i := 1; i <= 1000; i++ {
		v := Ease(float64(i) / 1000)
		if v < prev {
			t.Fatalf("Ease not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestProgress(t *testing.T) {
	start := time.Unix(100, 0)
	tests := []struct {
		name     string
		now      time.Time
		duration time.Duration
		want     float64
	}{
		{"before start", start.Add(-time.Second), time.Second, 0},
		{"half", start.Add(400 * time.Millisecond), 800 * time.Millisecond, 0.5},
		{"past end", start.Add(2 * time.Second), time.Second, 1},
		{"zero duration", start, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.now, start, tt.duration); got != tt.want {
				t.Errorf("Progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	var s Settings
	for i, k := range Keys {
		if !s.Set(k, float64(i)+0.25) {
			t.Fatalf("Set(%s) failed", k)
		}
	}
	for i, k := range Keys {
		v, ok := s.Get(k)
		want := float64(i) + 0.25
		if k == MeshCount {
			want = 0
		}
		if !ok || v != want {
			t.Errorf("Get(%s) = %v, want %v", k, v, want)
		}
	}
	if s.Set("bogus", 1) {
		t.Error("Set accepted unknown key")
	}
	if _, ok := s.Get("bogus"); ok {
		t.Error("Get accepted unknown key")
	}
}

func TestLerpRoundsMeshCount(t *testing.T) {
	a := Settings{MeshCount: 31, MetaballSize: 0.5}
	b := Settings{MeshCount: 80, MetaballSize: 1.0}

	mid := Lerp(a, b, 0.5)
	if mid.MeshCount != 56 {
		t.Errorf("MeshCount = %d, want 56", mid.MeshCount)
	}
	if math.Abs(mid.MetaballSize-0.75) > 1e-12 {
		t.Errorf("MetaballSize = %v, want 0.75", mid.MetaballSize)
	}
	if Lerp(a, b, 1) != b {
		t.Error("Lerp at t=1 differs from target")
	}
}

func TestParseKey(t *testing.T) {
	if k, ok := ParseKey("MESHCOUNT"); !ok || k != MeshCount {
		t.Errorf("ParseKey = %v, %v", k, ok)
	}
	if _, ok := ParseKey("gravity"); ok {
		t.Error("ParseKey accepted unknown key")
	}
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		94:      "94",
		0.5:     "0.5",
		0.37:    "0.37",
		1.256:   "1.26",
		0:       "0",
		-0.001:  "0",
		2.05:    "2.05",
		100.104: "100.1",
	}
	for in, want := range tests {
		if got := FormatValue(in); got != want {
			t.Errorf("FormatValue(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestControlClamp(t *testing.T) {
	c, ok := ControlFor(MeshCount)
	if !ok {
		t.Fatal("no control for mesh count")
	}
	if got := c.Clamp(200, 80); got != 80 {
		t.Errorf("Clamp(200) = %v, want 80", got)
	}
	if got := c.Clamp(-5, 80); got != 1 {
		t.Errorf("Clamp(-5) = %v, want 1", got)
	}
	for _, k := range Keys {
		if _, ok := ControlFor(k); !ok {
			t.Errorf("missing control for %s", k)
		}
	}
}

func TestBuiltinPresets(t *testing.T) {
	presets := Builtin()
	if len(presets) != 9 {
		t.Fatalf("expected 9 presets, got %d", len(presets))
	}
	d := presets[0]
	if d.Name != "Default" || d.MeshCount != 31 || d.SizeVariance != 0.37 || d.MetaballSize != 0.55 {
		t.Errorf("unexpected default preset %+v", d)
	}
	for _, p := range presets {
		if p.MeshCount < 1 || p.MeshCount > DefaultMaxBodies {
			t.Errorf("%s: mesh count %d out of range", p.Name, p.MeshCount)
		}
		if p.RecenterDeadZone != DefaultRecenterDeadZone {
			t.Errorf("%s: dead zone %v", p.Name, p.RecenterDeadZone)
		}
	}
	presets[0].MeshCount = 1
	if Builtin()[0].MeshCount != 31 {
		t.Error("Builtin returned shared storage")
	}
}
