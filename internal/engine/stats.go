package engine

import (
	"math"

	"github.com/san-kum/blobsim/internal/field"
	"github.com/san-kum/blobsim/internal/settings"
	"gonum.org/v1/gonum/spatial/r3"
)

// FrameStats summarizes one frame for metrics, observers and recorders.
type FrameStats struct {
	Frame         int
	Elapsed       float64
	Preset        string
	PresetIndex   int
	Transitioning bool
	Tweening      int
	Settings      settings.Settings
	Influences    int
	Triangles     int
	Vertices      int
	Truncated     bool
	KineticEnergy float64
	Centroid      r3.Vec
	// Spread is the RMS distance of the active bodies from their centroid.
	Spread   float64
	Mouse    r3.Vec
	Offset   float64
	Applied  int
	Rejected int
}

type Metric interface {
	Name() string
	Observe(s FrameStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(s FrameStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(FrameStats)

func (f ObserverFunc) OnFrame(s FrameStats) { f(s) }

type Result struct {
	Frames  []FrameStats
	Metrics map[string]float64
}

type massive interface{ Mass() float64 }

// bodyStats returns the kinetic energy, centroid and spread of bodies.
func bodyStats(bodies []*field.Body) (ke float64, centroid r3.Vec, spread float64) {
	if len(bodies) == 0 {
		return 0, r3.Vec{}, 0
	}
	for _, b := range bodies {
		if m, ok := b.Rigid.(massive); ok {
			ke += 0.5 * m.Mass() * r3.Norm2(b.Rigid.Linvel())
		}
		centroid = r3.Add(centroid, b.Rigid.Translation())
	}
	centroid = r3.Scale(1/float64(len(bodies)), centroid)
	for _, b := range bodies {
		spread += r3.Norm2(r3.Sub(b.Rigid.Translation(), centroid))
	}
	return ke, centroid, math.Sqrt(spread / float64(len(bodies)))
}
