// Package dynamo holds the numeric primitives shared by the simulation:
// flat state vectors, the [System] contract a stepper integrates, and the
// [Integrator] contract implemented in package integrators.
//
// A [System] with positions and velocities lays its state out as all
// positions first, then all velocities, so second-order steppers can split
// the vector in half.
//
//	x := world.State()
//	x = integ.Step(world, x, t, dt)
//
// # Thread Safety
//
// Nothing here is safe for concurrent mutation. The frame loop owns every
// System it steps.
package dynamo
