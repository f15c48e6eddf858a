// Package dynamo provides the shared primitives used by every controllable.
//
// It covers three things:
//
//   - [Vec3] and [Axis]: local-space vectors and the single operating axis a
//     controllable measures its value along.
//   - [ComponentAlong] and [Normalize]: the pure value mapping used to turn a
//     local pose into a scalar and that scalar into a [0,1] fraction.
//   - [State], [System] and [Integrator]: the small ODE surface used by the
//     in-memory hinge that stands in for a host physics joint.
//
// Nothing in this package holds mutable state.
package dynamo
