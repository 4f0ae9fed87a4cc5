package surface

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

type Vertex struct {
	Position r3.Vec
	Normal   r3.Vec
	Color    colorful.Color
}

// Mesh is an indexed triangle list. Truncated is set when extraction
// stopped at the triangle budget.
type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32
	Truncated bool
}

func (m *Mesh) reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
	m.Truncated = false
}

func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

func (m *Mesh) Triangle(i int) (a, b, c Vertex) {
	return m.Vertices[m.Indices[3*i]], m.Vertices[m.Indices[3*i+1]], m.Vertices[m.Indices[3*i+2]]
}

// Bounds of the vertex positions. An empty mesh has an empty box.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Scale(-1, lo)
	for _, v := range m.Vertices {
		lo = minVec(lo, v.Position)
		hi = maxVec(hi, v.Position)
	}
	return r3.Box{Min: lo, Max: hi}
}

func (m *Mesh) Area() float64 {
	var area float64
	for i := 0; i < m.Triangles(); i++ {
		a, b, c := m.Triangle(i)
		area += 0.5 * r3.Norm(r3.Cross(r3.Sub(b.Position, a.Position), r3.Sub(c.Position, a.Position)))
	}
	return area
}
