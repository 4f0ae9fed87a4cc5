// Package physics is a small rigid-body world for ball colliders.
//
// Bodies are dynamic, kinematic position-based or fixed:
//
//   - Dynamic bodies accumulate forces until [RigidBody.ResetForces] and are
//     integrated by a [dynamo.Integrator]; the [World] is itself a
//     [dynamo.System] whose state is every position followed by every
//     velocity.
//   - Kinematic bodies move to the translation they were given and push
//     dynamic bodies out of the way.
//   - Fixed bodies never move.
//
// After integration, overlapping spheres are separated in proportion to
// their inverse masses and lose their approaching normal velocity.
//
//	w := physics.NewWorld(r3.Vec{})
//	b := w.CreateRigidBody(physics.DynamicDesc().SetTranslation(0, 3, 0))
//	w.CreateCollider(physics.Ball(0.2).SetDensity(0.5), b)
//	b.AddForce(r3.Vec{Y: -1})
//	w.Step()
package physics
