// Package physics provides an in-memory hinge body that plays the part of a
// host physics engine's hinge joint and rigid body.
//
// [Hinge] implements [host.Joint] and [host.Body]. Its angle and angular
// velocity evolve under an optional spring/damper pulling toward the spring
// target, body drag, and externally applied torque, integrated with any
// [dynamo.Integrator]:
//
//	hinge := physics.NewHinge(node, dynamo.AxisY, integrators.NewRK4())
//	hinge.SetSpring(true, host.Spring{Target: 0, Stiffness: 100, Damper: 10})
//	hinge.Step(1.0 / 90)
//
// The angle is written back onto the transform's local euler rotation about
// the hinge axis after every step, so controls read it the same way they would
// read a host-driven transform.
package physics
