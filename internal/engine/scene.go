package engine

import (
	"github.com/san-kum/blobsim/internal/camera"
	"github.com/san-kum/blobsim/internal/settings"
	"github.com/san-kum/blobsim/internal/surface"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene is what a renderer draws each frame. Mesh positions are local to
// the blob; BlobOffset moves them into the world.
type Scene struct {
	Frame       int
	Mesh        *surface.Mesh
	MeshScale   float64
	BlobOffset  r3.Vec
	Mouse       r3.Vec
	MouseRadius float64
	Preset      string
	Settings    settings.Settings
	Stats       FrameStats
}

type Renderer interface {
	Render(scene *Scene, cam *camera.Rig) error
}

// World maps a mesh position into world space, blob offset included.
func (s *Scene) World(p r3.Vec) r3.Vec {
	local := r3.Scale(s.MeshScale, r3.Sub(r3.Scale(2, p), r3.Vec{X: 1, Y: 1, Z: 1}))
	return r3.Add(local, s.BlobOffset)
}
