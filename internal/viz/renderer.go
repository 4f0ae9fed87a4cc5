package viz

import (
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/blobsim/internal/camera"
	"github.com/san-kum/blobsim/internal/engine"
	"gonum.org/v1/gonum/spatial/r3"
)

const ambient = 0.15

type screenPoint struct {
	x, y, z float64
}

// Renderer rasterizes each frame's surface onto a braille canvas. It is
// safe to read the last frame from another goroutine.
type Renderer struct {
	mu      sync.Mutex
	canvas  *Canvas
	frame   string
	colored bool
	drawn   int
	culled  int
}

func NewRenderer(w, h int, colored bool) *Renderer {
	return &Renderer{canvas: NewCanvas(w, h), colored: colored}
}

// Resize replaces the canvas on the next frame.
func (r *Renderer) Resize(w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canvas = NewCanvas(max(w, 1), max(h, 1))
}

func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canvas.Width, r.canvas.Height
}

// Aspect is the width over height of the canvas in dots.
func (r *Renderer) Aspect() float64 {
	w, h := r.Size()
	return float64(w*2) / float64(h*4)
}

// Frame is the last rendered canvas.
func (r *Renderer) Frame() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Counts reports the triangles drawn and back-face culled last frame.
func (r *Renderer) Counts() (drawn, culled int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawn, r.culled
}

func (r *Renderer) Render(scene *engine.Scene, cam *camera.Rig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.canvas
	c.Clear()
	r.drawn, r.culled = 0, 0
	light := r3.Unit(r3.Add(r3.Scale(-1, cam.Forward()), r3.Scale(0.6, cam.Up())))
	eye := cam.Eye()

	mesh := scene.Mesh
	for i := 0; i < mesh.Triangles(); i++ {
		va, vb, vc := mesh.Triangle(i)
		wa, wb, wc := scene.World(va.Position), scene.World(vb.Position), scene.World(vc.Position)

		n := r3.Unit(r3.Add(r3.Add(va.Normal, vb.Normal), vc.Normal))
		center := r3.Scale(1.0/3, r3.Add(r3.Add(wa, wb), wc))
		if r3.Dot(n, r3.Sub(eye, center)) <= 0 {
			r.culled++
			continue
		}

		pa, okA := r.toScreen(cam, wa)
		pb, okB := r.toScreen(cam, wb)
		pc, okC := r.toScreen(cam, wc)
		if !okA || !okB || !okC {
			continue
		}
		brightness := ambient + (1-ambient)*math.Max(0, r3.Dot(n, light))
		col := va.Color.BlendLab(vb.Color, 0.5).BlendLab(vc.Color, 1.0/3).Clamped()
		fillTriangle(c, pa, pb, pc, brightness, col)
		r.drawn++
	}

	if p, ok := r.toScreen(cam, scene.Mouse); ok && scene.MouseRadius > 0 {
		edge, ok := r.toScreen(cam, r3.Add(scene.Mouse, r3.Scale(scene.MouseRadius, cam.Right())))
		if ok {
			c.DrawCircle(int(p.x), int(p.y), max(1, int(math.Abs(edge.x-p.x))))
		}
	}

	if r.colored {
		r.frame = c.Colored()
	} else {
		r.frame = c.String()
	}
	return nil
}

// toScreen projects a world point into dot coordinates with NDC depth.
func (r *Renderer) toScreen(cam *camera.Rig, p r3.Vec) (screenPoint, bool) {
	ndc, ok := cam.Project(p)
	if !ok || ndc.Z < -1 || ndc.Z > 1 {
		return screenPoint{}, false
	}
	w, h := r.canvas.Dots()
	return screenPoint{
		x: (ndc.X + 1) / 2 * float64(w),
		y: (1 - ndc.Y) / 2 * float64(h),
		z: ndc.Z,
	}, true
}

// fillTriangle scans the triangle's bounding box and plots every dot
// center inside it with interpolated depth.
func fillTriangle(c *Canvas, a, b, p screenPoint, brightness float64, col colorful.Color) {
	area := edge(a, b, p.x, p.y)
	if area == 0 {
		return
	}
	w, h := c.Dots()
	x0 := max(0, int(math.Floor(math.Min(a.x, math.Min(b.x, p.x)))))
	x1 := min(w-1, int(math.Ceil(math.Max(a.x, math.Max(b.x, p.x)))))
	y0 := max(0, int(math.Floor(math.Min(a.y, math.Min(b.y, p.y)))))
	y1 := min(h-1, int(math.Ceil(math.Max(a.y, math.Max(b.y, p.y)))))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			w0 := edge(b, p, fx, fy) / area
			w1 := edge(p, a, fx, fy) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			c.Plot(x, y, w0*a.z+w1*b.z+w2*p.z, brightness, col)
		}
	}
}

func edge(a, b screenPoint, x, y float64) float64 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}
