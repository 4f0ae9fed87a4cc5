package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/blobsim/internal/camera"
	"github.com/san-kum/blobsim/internal/engine"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	BackgroundRadius = 8.0
	BackgroundHue    = 0.565
	ambient          = 0.2
)

type bgTriangle struct {
	a, b, c rl.Vector3
	color   rl.Color
}

// backgroundLightness darkens the sphere away from -z: lightness is
// (-z * 0.08)^3, floored at black.
func backgroundLightness(z float64) float64 {
	return math.Max(0, math.Pow(-z*0.08, 3))
}

// backgroundSphere tessellates an inward-facing sphere whose faces are
// colored from the hue by their depth.
func backgroundSphere(radius float64, stacks, slices int, hue float64) []bgTriangle {
	point := func(i, j int) r3.Vec {
		theta := math.Pi * float64(i) / float64(stacks)
		phi := 2 * math.Pi * float64(j) / float64(slices)
		return r3.Vec{
			X: radius * math.Sin(theta) * math.Cos(phi),
			Y: radius * math.Cos(theta),
			Z: radius * math.Sin(theta) * math.Sin(phi),
		}
	}
	face := func(a, b, c r3.Vec) bgTriangle {
		z := (a.Z + b.Z + c.Z) / 3
		col := colorful.Hsl(hue*360, 1, backgroundLightness(z)).Clamped()
		return bgTriangle{a: vec(a), b: vec(b), c: vec(c), color: rgba(col)}
	}

	tris := make([]bgTriangle, 0, stacks*slices*2)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			p00, p01 := point(i, j), point(i, j+1)
			p10, p11 := point(i+1, j), point(i+1, j+1)
			// wound so the faces point at the center
			tris = append(tris, face(p00, p10, p01), face(p01, p10, p11))
		}
	}
	return tris
}

// Render draws the scene through the rig's camera. It is the engine's
// renderer and runs inside the window's drawing pass.
func (a *App) Render(scene *engine.Scene, cam *camera.Rig) error {
	a.scene, a.rig = scene, cam

	rl.BeginMode3D(toCamera3D(cam))
	defer rl.EndMode3D()

	for _, t := range a.background {
		rl.DrawTriangle3D(t.a, t.b, t.c, t.color)
	}

	light := r3.Unit(r3.Add(r3.Scale(-1, cam.Forward()), r3.Scale(0.6, cam.Up())))
	mesh := scene.Mesh
	for i := 0; i < mesh.Triangles(); i++ {
		va, vb, vc := mesh.Triangle(i)
		n := r3.Unit(r3.Add(r3.Add(va.Normal, vb.Normal), vc.Normal))
		shade := ambient + (1-ambient)*math.Max(0, r3.Dot(n, light))
		col := va.Color.BlendLinearRgb(vb.Color, 0.5).BlendLinearRgb(vc.Color, 1.0/3)
		col = colorful.Color{R: col.R * shade, G: col.G * shade, B: col.B * shade}
		rl.DrawTriangle3D(
			vec(scene.World(va.Position)),
			vec(scene.World(vb.Position)),
			vec(scene.World(vc.Position)),
			rgba(col),
		)
	}

	rl.DrawSphereWires(vec(scene.Mouse), float32(scene.MouseRadius), 8, 8, rl.NewColor(255, 255, 255, 40))
	return nil
}

func toCamera3D(cam *camera.Rig) rl.Camera3D {
	eye := cam.Eye()
	return rl.NewCamera3D(
		vec(eye),
		vec(r3.Add(eye, cam.Forward())),
		vec(cam.Up()),
		float32(cam.Fov),
		rl.CameraPerspective,
	)
}

func vec(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func rgba(c colorful.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, 255)
}
