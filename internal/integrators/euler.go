package integrators

import "github.com/san-kum/controlsim/internal/dynamo"

// Euler is the explicit first-order method. Cheap, and good enough for the
// stiff-ish hinge springs only at small frame times.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	return x.Axpy(dt, dyn.Derive(x, u, t))
}
