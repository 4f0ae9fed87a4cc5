package metrics

import "github.com/san-kum/blobsim/internal/engine"

// SurfaceLoad is the mean triangle count per frame.
type SurfaceLoad struct {
	name    string
	sum     float64
	peak    int
	samples int
}

func NewSurfaceLoad() *SurfaceLoad {
	return &SurfaceLoad{name: "triangles"}
}

func (l *SurfaceLoad) Name() string { return l.name }

func (l *SurfaceLoad) Observe(s engine.FrameStats) {
	l.sum += float64(s.Triangles)
	l.peak = max(l.peak, s.Triangles)
	l.samples++
}

func (l *SurfaceLoad) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return l.sum / float64(l.samples)
}

func (l *SurfaceLoad) Peak() int { return l.peak }

func (l *SurfaceLoad) Reset() {
	l.sum = 0
	l.peak = 0
	l.samples = 0
}

// Truncation is the fraction of frames whose mesh hit the triangle budget.
type Truncation struct {
	truncated, samples int
}

func NewTruncation() *Truncation { return &Truncation{} }

func (t *Truncation) Name() string { return "truncated" }

func (t *Truncation) Observe(s engine.FrameStats) {
	t.samples++
	if s.Truncated {
		t.truncated++
	}
}

func (t *Truncation) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return float64(t.truncated) / float64(t.samples)
}

func (t *Truncation) Reset() { t.truncated, t.samples = 0, 0 }

// Standard is the metric set reported by headless runs.
func Standard(boundaryRadius float64) []engine.Metric {
	return []engine.Metric{
		NewEnergy(),
		NewSettling(1e-3),
		NewContainment(boundaryRadius),
		NewSurfaceLoad(),
		NewTruncation(),
	}
}
