package surface

import (
	"errors"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrResolution = errors.New("surface: resolution must be at least 2")
	ErrScale      = errors.New("surface: scale must be positive")
)

type Config struct {
	Resolution   int
	Isolation    float64
	MaxTriangles int // 0 means unlimited
	Scale        float64
}

func DefaultConfig() Config {
	return Config{
		Resolution:   96,
		Isolation:    1000,
		MaxTriangles: 90000,
		Scale:        5,
	}
}

func (c Config) Validate() error {
	if c.Resolution < 2 {
		return ErrResolution
	}
	if c.Scale <= 0 {
		return ErrScale
	}
	return nil
}

// The six tetrahedra sharing the cube diagonal 0-7. Corner k sits at
// offset (k&1, k>>1&1, k>>2&1).
var tetrahedra = [6][4]int{
	{0, 1, 3, 7},
	{0, 3, 2, 7},
	{0, 2, 6, 7},
	{0, 6, 4, 7},
	{0, 4, 5, 7},
	{0, 5, 1, 7},
}

// Marcher is the surface extractor. Balls are collected between Reset and
// Update; Update samples the field and rebuilds the mesh.
type Marcher struct {
	cfg    Config
	field  Field
	values []float64
	edges  map[uint64]uint32
	mesh   Mesh
}

func NewMarcher(cfg Config) (*Marcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Resolution
	return &Marcher{
		cfg:    cfg,
		values: make([]float64, n*n*n),
		edges:  make(map[uint64]uint32),
	}, nil
}

func (m *Marcher) Config() Config { return m.cfg }
func (m *Marcher) Field() *Field  { return &m.field }
func (m *Marcher) Mesh() *Mesh    { return &m.mesh }

func (m *Marcher) Reset() { m.field.Reset() }

func (m *Marcher) AddBall(center r3.Vec, strength, subtract float64, color colorful.Color) {
	m.field.Add(Ball{Center: center, Strength: strength, Subtract: subtract, Color: color})
}

// ToWorld maps a normalized position into mesh space.
func (m *Marcher) ToWorld(p r3.Vec) r3.Vec {
	return r3.Scale(m.cfg.Scale, r3.Sub(r3.Scale(2, p), r3.Vec{X: 1, Y: 1, Z: 1}))
}

func (m *Marcher) Update() {
	m.stamp()
	m.polygonize()
}

func (m *Marcher) index(x, y, z int) int {
	n := m.cfg.Resolution
	return x + n*(y+n*z)
}

func (m *Marcher) point(x, y, z int) r3.Vec {
	n := float64(m.cfg.Resolution)
	return r3.Vec{X: float64(x) / n, Y: float64(y) / n, Z: float64(z) / n}
}

// cellRange is the span of grid samples within [lo, hi].
func (m *Marcher) cellRange(lo, hi float64) (int, int) {
	n := m.cfg.Resolution
	a := int(math.Floor(lo * float64(n)))
	b := int(math.Ceil(hi * float64(n)))
	return max(a, 0), min(b, n-1)
}

// stamp accumulates each ball over the samples it can reach.
func (m *Marcher) stamp() {
	clear(m.values)
	for _, b := range m.field.balls {
		r := math.Min(b.Radius(), 2)
		x0, x1 := m.cellRange(b.Center.X-r, b.Center.X+r)
		y0, y1 := m.cellRange(b.Center.Y-r, b.Center.Y+r)
		z0, z1 := m.cellRange(b.Center.Z-r, b.Center.Z+r)
		for z := z0; z <= z1; z++ {
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					p := m.point(x, y, z)
					if v := b.potential(r3.Norm2(r3.Sub(p, b.Center))); v > 0 {
						m.values[m.index(x, y, z)] += v
					}
				}
			}
		}
	}
}

func (m *Marcher) polygonize() {
	m.mesh.reset()
	clear(m.edges)
	if m.field.Len() == 0 {
		return
	}
	box := m.field.Bounds()
	x0, x1 := m.cellRange(box.Min.X, box.Max.X)
	y0, y1 := m.cellRange(box.Min.Y, box.Max.Y)
	z0, z1 := m.cellRange(box.Min.Z, box.Max.Z)
	x1, y1, z1 = min(x1, m.cfg.Resolution-2), min(y1, m.cfg.Resolution-2), min(z1, m.cfg.Resolution-2)

	var ids [8]int
	for z := z0; z <= z1; z++ {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				for k := range ids {
					ids[k] = m.index(x+k&1, y+(k>>1)&1, z+(k>>2)&1)
				}
				for _, tet := range tetrahedra {
					if !m.tetrahedron([4]int{ids[tet[0]], ids[tet[1]], ids[tet[2]], ids[tet[3]]}) {
						m.mesh.Truncated = true
						return
					}
				}
			}
		}
	}
}

// tetrahedron emits the part of the surface crossing one tetrahedron. It
// reports false once the triangle budget is spent.
func (m *Marcher) tetrahedron(ids [4]int) bool {
	var in, out [4]int
	ni, no := 0, 0
	for k, id := range ids {
		if m.values[id] >= m.cfg.Isolation {
			in[ni] = k
			ni++
		} else {
			out[no] = k
			no++
		}
	}
	edge := func(a, b int) uint32 { return m.vertex(ids[a], ids[b]) }

	switch ni {
	case 1:
		a := in[0]
		return m.triangle(edge(a, out[0]), edge(a, out[1]), edge(a, out[2]))
	case 3:
		a := out[0]
		return m.triangle(edge(in[0], a), edge(in[1], a), edge(in[2], a))
	case 2:
		a, b, c, d := in[0], in[1], out[0], out[1]
		e1, e2, e3, e4 := edge(a, c), edge(a, d), edge(b, d), edge(b, c)
		return m.triangle(e1, e2, e3) && m.triangle(e1, e3, e4)
	}
	return true
}

// vertex returns the shared vertex where the surface crosses the grid edge
// between samples a and b.
func (m *Marcher) vertex(a, b int) uint32 {
	if a > b {
		a, b = b, a
	}
	key := uint64(a)<<32 | uint64(b)
	if i, ok := m.edges[key]; ok {
		return i
	}

	va, vb := m.values[a], m.values[b]
	t := 0.5
	if va != vb {
		t = math.Max(0, math.Min(1, (m.cfg.Isolation-va)/(vb-va)))
	}
	pa, pb := m.pointAt(a), m.pointAt(b)
	p := r3.Add(pa, r3.Scale(t, r3.Sub(pb, pa)))

	var normal r3.Vec
	if g := m.field.Gradient(p); r3.Norm2(g) > 0 {
		normal = r3.Unit(r3.Scale(-1, g))
	}

	i := uint32(len(m.mesh.Vertices))
	m.mesh.Vertices = append(m.mesh.Vertices, Vertex{
		Position: m.ToWorld(p),
		Normal:   normal,
		Color:    m.field.Color(p),
	})
	m.edges[key] = i
	return i
}

func (m *Marcher) pointAt(id int) r3.Vec {
	n := m.cfg.Resolution
	return m.point(id%n, (id/n)%n, id/(n*n))
}

// triangle appends a, b, c wound so the face normal agrees with the vertex
// normals. Degenerate triangles are dropped.
func (m *Marcher) triangle(a, b, c uint32) bool {
	if m.cfg.MaxTriangles > 0 && m.mesh.Triangles() >= m.cfg.MaxTriangles {
		return false
	}
	va, vb, vc := m.mesh.Vertices[a], m.mesh.Vertices[b], m.mesh.Vertices[c]
	face := r3.Cross(r3.Sub(vb.Position, va.Position), r3.Sub(vc.Position, va.Position))
	if r3.Norm2(face) == 0 {
		return true
	}
	if r3.Dot(face, r3.Add(r3.Add(va.Normal, vb.Normal), vc.Normal)) < 0 {
		b, c = c, b
	}
	m.mesh.Indices = append(m.mesh.Indices, a, b, c)
	return true
}
