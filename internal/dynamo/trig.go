package dynamo

import "math"

// TrigTable is a sine lookup over one period with linear interpolation.
// Interpolated values never leave [-1, 1].
type TrigTable struct {
	sin []float64
	n   int
}

// DefaultTrigTable has 4096 entries (~0.0015 rad resolution).
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{sin: make([]float64, n), n: n}
	for i := range t.sin {
		t.sin[i] = math.Sin(float64(i) * 2 * math.Pi / float64(n))
	}
	return t
}

func (t *TrigTable) lookup(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)
	return t.sin[i%t.n]*(1-frac) + t.sin[(i+1)%t.n]*frac
}

func (t *TrigTable) Sin(x float64) float64 { return t.lookup(x) }

func (t *TrigTable) Cos(x float64) float64 { return t.lookup(x + math.Pi/2) }

func FastSin(x float64) float64 { return DefaultTrigTable.Sin(x) }

func FastCos(x float64) float64 { return DefaultTrigTable.Cos(x) }
