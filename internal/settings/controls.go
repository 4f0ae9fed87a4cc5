package settings

// Control describes how a key is presented and bounded for direct input.
type Control struct {
	Key   Key
	Label string
	Min   float64
	Max   float64 // 0 means unbounded
	Step  float64
}

var controls = map[Key]Control{
	MeshCount:        {MeshCount, "Mesh count", 1, 0, 1},
	SizeVariance:     {SizeVariance, "Size variance", 0, 0, 0.01},
	MetaballSize:     {MetaballSize, "Metaball size", 0, 0, 0.01},
	GlueStrength:     {GlueStrength, "Glue strength", 0, 0, 1},
	SpreadRange:      {SpreadRange, "Spread range", 0, 0, 0.05},
	SpeedVariance:    {SpeedVariance, "Speed variance", 0, 0, 0.01},
	RecenterForce:    {RecenterForce, "Recenter force", 0, 0, 0.05},
	RecenterDamping:  {RecenterDamping, "Damping", 0, 0, 0.01},
	RecenterDeadZone: {RecenterDeadZone, "Dead zone", 0, 0, 0.01},
	NoiseStrength:    {NoiseStrength, "Noise", 0, 0, 0.01},
	SwirlStrength:    {SwirlStrength, "Swirl", 0, 0, 0.01},
	BoundaryRadius:   {BoundaryRadius, "Boundary radius", 0, 0, 0.05},
	BoundaryStrength: {BoundaryStrength, "Boundary strength", 0, 0, 0.05},
}

// ControlFor returns the presentation of k.
func ControlFor(k Key) (Control, bool) {
	c, ok := controls[k]
	return c, ok
}

// Clamp bounds v to the control's range. maxBodies bounds MeshCount.
func (c Control) Clamp(v float64, maxBodies int) float64 {
	if v < c.Min {
		v = c.Min
	}
	hi := c.Max
	if c.Key == MeshCount && maxBodies > 0 {
		hi = float64(maxBodies)
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}
