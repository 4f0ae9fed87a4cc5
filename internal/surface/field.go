package surface

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// epsilon keeps the potential finite at a ball's centre.
const epsilon = 1e-6

// Ball is one influence. Its potential at squared distance d2 is
// Strength/(epsilon+d2) - Subtract, floored at zero.
type Ball struct {
	Center   r3.Vec
	Strength float64
	Subtract float64
	Color    colorful.Color
}

// Radius is the distance at which the potential reaches zero. A ball with
// no subtract factor reaches everywhere.
func (b Ball) Radius() float64 {
	if b.Subtract <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(b.Strength / b.Subtract)
}

func (b Ball) potential(d2 float64) float64 {
	v := b.Strength/(epsilon+d2) - b.Subtract
	if v < 0 {
		return 0
	}
	return v
}

// weight is the colour contribution at distance d: one at the centre,
// falling smoothly to zero at the radius.
func (b Ball) weight(d float64) float64 {
	r := b.Radius()
	if math.IsInf(r, 1) {
		return b.Strength / (epsilon + d*d)
	}
	ratio := d / r
	if ratio >= 1 {
		return 0
	}
	return 1 - ratio*ratio*ratio*(ratio*(ratio*6-15)+10)
}

// Field is the sum of every ball's potential.
type Field struct {
	balls []Ball
}

func (f *Field) Add(b Ball)    { f.balls = append(f.balls, b) }
func (f *Field) Reset()        { f.balls = f.balls[:0] }
func (f *Field) Len() int      { return len(f.balls) }
func (f *Field) Balls() []Ball { return f.balls }

func (f *Field) Value(p r3.Vec) float64 {
	var sum float64
	for _, b := range f.balls {
		sum += b.potential(r3.Norm2(r3.Sub(p, b.Center)))
	}
	return sum
}

// Gradient of Value at p. It points towards the ball centres.
func (f *Field) Gradient(p r3.Vec) r3.Vec {
	var g r3.Vec
	for _, b := range f.balls {
		d := r3.Sub(p, b.Center)
		d2 := r3.Norm2(d)
		if b.potential(d2) == 0 {
			continue
		}
		den := epsilon + d2
		g = r3.Add(g, r3.Scale(-2*b.Strength/(den*den), d))
	}
	return g
}

// Color blends the ball colours in linear RGB by their weights at p.
func (f *Field) Color(p r3.Vec) colorful.Color {
	var r, g, bl, total float64
	for _, b := range f.balls {
		w := b.weight(r3.Norm(r3.Sub(p, b.Center)))
		if w <= 0 {
			continue
		}
		lr, lg, lb := b.Color.LinearRgb()
		r += w * lr
		g += w * lg
		bl += w * lb
		total += w
	}
	if total == 0 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return colorful.LinearRgb(r/total, g/total, bl/total).Clamped()
}

// Bounds is the box covering every ball's reach, clipped to the unit cube.
// An empty field has an empty box at the origin.
func (f *Field) Bounds() r3.Box {
	if len(f.balls) == 0 {
		return r3.Box{}
	}
	lo := r3.Vec{X: 1, Y: 1, Z: 1}
	hi := r3.Vec{}
	for _, b := range f.balls {
		r := math.Min(b.Radius(), 2)
		lo = minVec(lo, r3.Sub(b.Center, r3.Vec{X: r, Y: r, Z: r}))
		hi = maxVec(hi, r3.Add(b.Center, r3.Vec{X: r, Y: r, Z: r}))
	}
	return r3.Box{Min: maxVec(lo, r3.Vec{}), Max: minVec(hi, r3.Vec{X: 1, Y: 1, Z: 1})}
}

func minVec(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func maxVec(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}
