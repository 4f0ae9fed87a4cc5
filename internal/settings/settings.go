package settings

import (
	"math"
	"strconv"
	"strings"
)

// Key names one control of the Settings record.
type Key string

const (
	MeshCount        Key = "meshCount"
	SizeVariance     Key = "sizeVariance"
	MetaballSize     Key = "metaballSize"
	GlueStrength     Key = "glueStrength"
	SpreadRange      Key = "spreadRange"
	SpeedVariance    Key = "speedVariance"
	RecenterForce    Key = "recenterForce"
	RecenterDamping  Key = "recenterDamping"
	RecenterDeadZone Key = "recenterDeadZone"
	NoiseStrength    Key = "noiseStrength"
	SwirlStrength    Key = "swirlStrength"
	BoundaryRadius   Key = "boundaryRadius"
	BoundaryStrength Key = "boundaryStrength"
)

// Keys lists every control in display order.
var Keys = []Key{
	MeshCount, SizeVariance, MetaballSize, GlueStrength, SpreadRange,
	SpeedVariance, RecenterForce, RecenterDamping, RecenterDeadZone,
	NoiseStrength, SwirlStrength, BoundaryRadius, BoundaryStrength,
}

// Settings is the flat record read by the force field and the synthesizer
// every frame.
type Settings struct {
	MeshCount        int     `yaml:"meshCount" json:"meshCount"`
	SizeVariance     float64 `yaml:"sizeVariance" json:"sizeVariance"`
	MetaballSize     float64 `yaml:"metaballSize" json:"metaballSize"`
	GlueStrength     float64 `yaml:"glueStrength" json:"glueStrength"`
	SpreadRange      float64 `yaml:"spreadRange" json:"spreadRange"`
	SpeedVariance    float64 `yaml:"speedVariance" json:"speedVariance"`
	RecenterForce    float64 `yaml:"recenterForce" json:"recenterForce"`
	RecenterDamping  float64 `yaml:"recenterDamping" json:"recenterDamping"`
	RecenterDeadZone float64 `yaml:"recenterDeadZone" json:"recenterDeadZone"`
	NoiseStrength    float64 `yaml:"noiseStrength" json:"noiseStrength"`
	SwirlStrength    float64 `yaml:"swirlStrength" json:"swirlStrength"`
	BoundaryRadius   float64 `yaml:"boundaryRadius" json:"boundaryRadius"`
	BoundaryStrength float64 `yaml:"boundaryStrength" json:"boundaryStrength"`
}

func (s *Settings) field(k Key) *float64 {
	switch k {
	case SizeVariance:
		return &s.SizeVariance
	case MetaballSize:
		return &s.MetaballSize
	case GlueStrength:
		return &s.GlueStrength
	case SpreadRange:
		return &s.SpreadRange
	case SpeedVariance:
		return &s.SpeedVariance
	case RecenterForce:
		return &s.RecenterForce
	case RecenterDamping:
		return &s.RecenterDamping
	case RecenterDeadZone:
		return &s.RecenterDeadZone
	case NoiseStrength:
		return &s.NoiseStrength
	case SwirlStrength:
		return &s.SwirlStrength
	case BoundaryRadius:
		return &s.BoundaryRadius
	case BoundaryStrength:
		return &s.BoundaryStrength
	}
	return nil
}

// Get returns the value of k, or false for an unknown key.
func (s Settings) Get(k Key) (float64, bool) {
	if k == MeshCount {
		return float64(s.MeshCount), true
	}
	if f := s.field(k); f != nil {
		return *f, true
	}
	return 0, false
}

// Set writes v to k without clamping. MeshCount is rounded to the nearest
// integer.
func (s *Settings) Set(k Key, v float64) bool {
	if k == MeshCount {
		s.MeshCount = int(math.Round(v))
		return true
	}
	if f := s.field(k); f != nil {
		*f = v
		return true
	}
	return false
}

// Lerp interpolates every field independently. MeshCount is rounded after
// interpolation.
func Lerp(from, to Settings, t float64) Settings {
	var out Settings
	for _, k := range Keys {
		a, _ := from.Get(k)
		b, _ := to.Get(k)
		out.Set(k, lerp(a, b, t))
	}
	return out
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ParseKey accepts the canonical key name, case-insensitively.
func ParseKey(name string) (Key, bool) {
	for _, k := range Keys {
		if strings.EqualFold(string(k), name) {
			return k, true
		}
	}
	return "", false
}

// FormatValue renders a control value with at most two decimals and no
// trailing zeros.
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
