package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/blobsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrEmptyMesh = errors.New("export: mesh has no triangles")

// Transform maps extractor space to output space.
type Transform func(r3.Vec) r3.Vec

// WriteOBJ writes the mesh as Wavefront OBJ. Vertex colors follow the
// position as the common "v x y z r g b" extension. A nil transform
// keeps extractor coordinates.
func WriteOBJ(w io.Writer, m *surface.Mesh, tf Transform) error {
	if m.Triangles() == 0 {
		return ErrEmptyMesh
	}
	if tf == nil {
		tf = func(p r3.Vec) r3.Vec { return p }
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# blobsim surface: %d vertices, %d triangles\n", len(m.Vertices), m.Triangles())
	if m.Truncated {
		fmt.Fprintln(bw, "# truncated at the triangle budget")
	}
	fmt.Fprintln(bw, "o blob")

	for _, v := range m.Vertices {
		p := tf(v.Position)
		c := v.Color.Clamped()
		fmt.Fprintf(bw, "v %.6f %.6f %.6f %.4f %.4f %.4f\n", p.X, p.Y, p.Z, c.R, c.G, c.B)
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
	}
	for i := 0; i < m.Triangles(); i++ {
		a, b, c := m.Indices[3*i]+1, m.Indices[3*i+1]+1, m.Indices[3*i+2]+1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	return bw.Flush()
}

// SaveOBJ writes the mesh to path.
func SaveOBJ(path string, m *surface.Mesh, tf Transform) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, m, tf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
