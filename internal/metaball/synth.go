// Package metaball feeds the active bodies into a surface extractor once
// per frame.
package metaball

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/blobsim/internal/field"
	"github.com/san-kum/blobsim/internal/settings"
	"gonum.org/v1/gonum/spatial/r3"
)

// MinStrength is the floor applied to every influence.
const MinStrength = 0.05

// Extractor builds an iso-surface from influences submitted between Reset
// and Update.
type Extractor interface {
	Reset()
	AddBall(center r3.Vec, strength, subtract float64, color colorful.Color)
	Update()
}

type Influence struct {
	Position r3.Vec
	Strength float64
	Subtract float64
	Color    colorful.Color
}

type Synthesizer struct {
	extractor  Extractor
	influences []Influence
}

func New(ex Extractor) *Synthesizer {
	return &Synthesizer{extractor: ex}
}

// SizeMultiplier skews a body's size seed in [-1, 1] so that larger
// variance yields a few big balls among many small ones. Zero variance
// gives exactly 1.
func SizeMultiplier(seed, variance float64) float64 {
	n := (seed + 1) / 2
	curve := 1 + variance*6
	s := math.Pow(n, curve)
	lo := math.Max(0.1, 1-variance)
	hi := 1 + variance*4
	return lo + (hi-lo)*s
}

func Strength(metaballSize, seed, variance float64) float64 {
	return math.Max(MinStrength, metaballSize*SizeMultiplier(seed, variance))
}

// Rebuild resets the extractor, submits one influence for each of the first
// MeshCount bodies and rebuilds the surface. It returns the number of
// influences submitted.
func (s *Synthesizer) Rebuild(bodies []*field.Body, st settings.Settings, elapsed float64) int {
	n := min(max(st.MeshCount, 0), len(bodies))

	s.extractor.Reset()
	s.influences = s.influences[:0]
	for _, b := range bodies[:n] {
		inf := Influence{
			Position: b.Update(st, elapsed),
			Strength: Strength(st.MetaballSize, b.SizeSeed, st.SizeVariance),
			Subtract: st.GlueStrength,
			Color:    b.Color,
		}
		s.influences = append(s.influences, inf)
		s.extractor.AddBall(inf.Position, inf.Strength, inf.Subtract, inf.Color)
	}
	s.extractor.Update()
	return n
}

// Influences are the balls submitted by the last Rebuild.
func (s *Synthesizer) Influences() []Influence { return s.influences }
