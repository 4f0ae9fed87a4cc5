package engine

import (
	"fmt"
	"time"

	"github.com/san-kum/blobsim/internal/settings"
)

// Intent is a user action waiting for the next frame. apply reports whether
// it changed anything; rejected intents are counted and dropped.
type Intent interface {
	apply(e *Engine, now time.Time) bool
	fmt.Stringer
}

// SelectPreset starts a transition to preset Index.
type SelectPreset struct{ Index int }

// NextPreset starts a transition to the following preset.
type NextPreset struct{}

// SetControl writes raw user text to Key.
type SetControl struct {
	Key settings.Key
	Raw string
}

// ResetControl tweens Key back to the active preset's value.
type ResetControl struct{ Key settings.Key }

// Pointer moves the pointer to normalized device coordinates.
type Pointer struct{ X, Y float64 }

// Wheel scrolls the blob along the view direction.
type Wheel struct{ Delta float64 }

func (i SelectPreset) apply(e *Engine, now time.Time) bool {
	return e.state.ApplyPreset(i.Index, now, false)
}

func (NextPreset) apply(e *Engine, now time.Time) bool {
	return e.state.NextPreset(now)
}

func (i SetControl) apply(e *Engine, _ time.Time) bool {
	return e.state.SetControl(i.Key, i.Raw)
}

func (i ResetControl) apply(e *Engine, now time.Time) bool {
	return e.state.ResetControl(i.Key, now)
}

func (i Pointer) apply(e *Engine, _ time.Time) bool {
	e.pointer = i
	return true
}

func (i Wheel) apply(e *Engine, _ time.Time) bool {
	e.rig.Wheel(i.Delta)
	return true
}

func (i SelectPreset) String() string { return fmt.Sprintf("preset %d", i.Index) }
func (NextPreset) String() string     { return "next preset" }
func (i SetControl) String() string   { return fmt.Sprintf("set %s=%q", i.Key, i.Raw) }
func (i ResetControl) String() string { return fmt.Sprintf("reset %s", i.Key) }
func (i Pointer) String() string      { return fmt.Sprintf("pointer %.3f,%.3f", i.X, i.Y) }
func (i Wheel) String() string        { return fmt.Sprintf("wheel %g", i.Delta) }
