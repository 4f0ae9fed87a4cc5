// Package engine is the frame driver. It owns the physics world, the body
// pool, the settings state, the camera rig and the surface, and advances all
// of them in a fixed order once per frame. Input arrives as intents that
// are queued from any goroutine and applied at the start of the next frame.
package engine
