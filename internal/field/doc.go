// Package field holds the simulated bodies and the force field that keeps
// them gathered into a single drifting blob.
//
// Every frame a body's accumulated force is cleared and rebuilt from five
// contributions: recenter, boundary, swirl, noise and damping. The body then
// reports its position mapped into the unit cube the surface synthesizer
// samples.
package field
