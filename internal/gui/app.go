// Package gui is the raylib window front end: it drives an engine once per
// window frame, draws the surface inside a gradient background sphere and
// maps keys and the mouse to intents.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/blobsim/internal/camera"
	"github.com/san-kum/blobsim/internal/engine"
	"github.com/san-kum/blobsim/internal/settings"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColTween   = rl.NewColor(230, 200, 90, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720
	maxTelemetry = 200
	// wheelScale converts raylib wheel notches into wheel units.
	wheelScale = 100
)

type App struct {
	Engine    *engine.Engine
	Running   bool
	Selected  int
	ShowHUD   bool
	Telemetry []float64
	Font      rl.Font
	Err       error

	background []bgTriangle
	scene      *engine.Scene
	rig        *camera.Rig
	lastMouse  rl.Vector2
}

func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(screenWidth, screenHeight, "blobsim")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp installs the app as the engine's renderer.
func NewApp(eng *engine.Engine) *App {
	a := &App{
		Engine:     eng,
		Running:    true,
		ShowHUD:    true,
		Telemetry:  make([]float64, 0, maxTelemetry),
		background: backgroundSphere(BackgroundRadius, 16, 32, BackgroundHue),
	}
	eng.SetRenderer(a)
	return a
}

// Run opens the window and blocks until it is closed or a frame fails.
func Run(eng *engine.Engine) error {
	initWindow(eng.Config().FPS)
	defer rl.CloseWindow()

	app := NewApp(eng)
	app.Font = loadFont()
	app.RunLoop()
	return app.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && a.Err == nil {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

// Update forwards input to the engine as intents.
func (a *App) Update() {
	key := settings.Keys[a.Selected]
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.Engine.Push(engine.NextPreset{})
	}
	for i := int32(0); i < 9; i++ {
		if rl.IsKeyPressed(rl.KeyOne + i) {
			a.Engine.Push(engine.SelectPreset{Index: int(i)})
		}
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		n := len(settings.Keys)
		if rl.IsKeyDown(rl.KeyLeftShift) {
			a.Selected = (a.Selected + n - 1) % n
		} else {
			a.Selected = (a.Selected + 1) % n
		}
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressedRepeat(rl.KeyUp) {
		a.adjust(key, 1)
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressedRepeat(rl.KeyDown) {
		a.adjust(key, -1)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Engine.Push(engine.ResetControl{Key: key})
	}

	mouse := rl.GetMousePosition()
	if mouse != a.lastMouse {
		a.lastMouse = mouse
		w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
		a.Engine.Push(engine.Pointer{
			X: float64(mouse.X)/w*2 - 1,
			Y: 1 - float64(mouse.Y)/h*2,
		})
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Engine.Push(engine.Wheel{Delta: -float64(wheel) * wheelScale})
	}
}

func (a *App) adjust(k settings.Key, dir float64) {
	ctl, _ := settings.ControlFor(k)
	v, _ := a.Engine.Settings().Get(k)
	a.Engine.Push(engine.SetControl{Key: k, Raw: settings.FormatValue(v + dir*ctl.Step)})
}

// Draw steps the engine inside the drawing pass so its Render call lands in
// this window frame. A paused app redraws the last scene.
func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.Engine.Rig().Aspect = float64(rl.GetScreenWidth()) / float64(rl.GetScreenHeight())
	if a.Running {
		st, err := a.Engine.Frame()
		if err != nil {
			a.Err = err
		}
		if len(a.Telemetry) == maxTelemetry {
			a.Telemetry = a.Telemetry[1:]
		}
		a.Telemetry = append(a.Telemetry, st.KineticEnergy)
	} else if a.scene != nil {
		a.Render(a.scene, a.rig)
	}

	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	st := a.Engine.Last()
	a.drawText("blobsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", st.Preset), 150, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	case st.Transitioning:
		status = "TRANSITIONING"
	}
	a.drawText(status, rl.GetScreenWidth()-180, 30, 16, col)

	tweening := make(map[settings.Key]bool)
	for _, k := range a.Engine.State().Tweening() {
		tweening[k] = true
	}
	cur := a.Engine.Settings()
	y := 80
	for i, k := range settings.Keys {
		ctl, _ := settings.ControlFor(k)
		v, _ := cur.Get(k)
		line := fmt.Sprintf("  %-18s %s", ctl.Label, settings.FormatValue(v))
		c := ColText
		switch {
		case i == a.Selected:
			line, c = ">"+line[1:], ColSelect
		case tweening[k]:
			c = ColTween
		}
		a.drawText(line, 30, y, 16, c)
		y += 22
	}

	a.drawText(fmt.Sprintf("%d blobs  %d triangles", st.Influences, st.Triangles), 30, y+12, 14, ColAccent)
	a.DrawTelemetry()

	h := rl.GetScreenHeight()
	a.drawText("[N] NEXT  [1-9] PRESET  [TAB] CONTROL  [UP/DOWN] TUNE  [R] RESET  [SPACE] PAUSE  [Q] QUIT", 360, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, h-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, rl.GetScreenHeight()-140
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
