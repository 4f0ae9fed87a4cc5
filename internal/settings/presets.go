package settings

// Preset is a named immutable bundle of every control.
type Preset struct {
	Name     string `yaml:"name" json:"name"`
	Settings `yaml:",inline" json:",inline"`
}

// Values shared by every built-in preset for the controls the presets do
// not tune individually.
const (
	DefaultRecenterDamping  = 0.4
	DefaultRecenterDeadZone = 0.05
	DefaultBoundaryRadius   = 2.5
	DefaultBoundaryStrength = 1.0
)

func preset(name string, meshCount int, sizeVariance, metaballSize, glue, spread, speedVariance, recenter, noise, swirl float64) Preset {
	return Preset{
		Name: name,
		Settings: Settings{
			MeshCount:        meshCount,
			SizeVariance:     sizeVariance,
			MetaballSize:     metaballSize,
			GlueStrength:     glue,
			SpreadRange:      spread,
			SpeedVariance:    speedVariance,
			RecenterForce:    recenter,
			RecenterDamping:  DefaultRecenterDamping,
			RecenterDeadZone: DefaultRecenterDeadZone,
			NoiseStrength:    noise,
			SwirlStrength:    swirl,
			BoundaryRadius:   DefaultBoundaryRadius,
			BoundaryStrength: DefaultBoundaryStrength,
		},
	}
}

// Builtin returns a fresh copy of the shipped presets. Index 0 is Default.
func Builtin() []Preset {
	return []Preset{
		preset("Default", 31, 0.37, 0.55, 94, 0.75, 0.14, 0.9, 1.0, 1.0),
		preset("Preset A", 80, 0, 0.44, 46, 1.3, 0, 0.5, 0, 1.0),
		preset("Preset B", 40, 0.35, 0.5, 95, 1.0, 0.3, 0.5, 0.2, 0.15),
		preset("Preset C", 32, 0.29, 0.37, 29, 0.5, 0.49, 0.5, 0.85, 0.15),
		preset("Preset D", 31, 0.37, 0.55, 40, 1.4, 0.13, 0.9, 1.0, 1.0),
		preset("Preset E", 25, 0.52, 0.55, 10, 0.9, 0.13, 0.9, 1.0, 1.0),
		preset("Preset F", 80, 0.22, 0.2, 11, 1.25, 0.4, 2, 1, 0),
		preset("Preset G", 80, 0.62, 0.67, 46, 1.3, 0, 2.0, 1.0, 0.48),
		preset("Preset H", 65, 0.56, 0.84, 28, 2.05, 0.35, 2.0, 0.11, 0.15),
	}
}
