package metrics

import "github.com/san-kum/blobsim/internal/engine"

// Energy is the mean kinetic energy of the active bodies per frame.
type Energy struct {
	name    string
	total   float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s engine.FrameStats) {
	e.total += s.KineticEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// Settling is the time, in seconds, of the last frame whose kinetic energy
// was above threshold. A blob that never calms reports the whole run.
type Settling struct {
	name      string
	threshold float64
	last      float64
	samples   int
}

func NewSettling(threshold float64) *Settling {
	return &Settling{name: "settling_time", threshold: threshold}
}

func (s *Settling) Name() string { return s.name }

func (s *Settling) Observe(f engine.FrameStats) {
	s.samples++
	if f.KineticEnergy > s.threshold {
		s.last = f.Elapsed
	}
}

func (s *Settling) Value() float64 { return s.last }

func (s *Settling) Reset() {
	s.last = 0
	s.samples = 0
}
