package integrators

import (
	"fmt"

	"github.com/san-kum/controlsim/internal/dynamo"
)

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	half := dt * 0.5

	k1 := dyn.Derive(x, u, t)
	k2 := dyn.Derive(x.Axpy(half, k1), u, t+half)
	k3 := dyn.Derive(x.Axpy(half, k2), u, t+half)
	k4 := dyn.Derive(x.Axpy(dt, k3), u, t+dt)

	result := make(dynamo.State, len(x))
	dt6 := dt / 6.0
	for i := range x {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}

// ByName returns the integrator registered under name.
func ByName(name string) (dynamo.Integrator, error) {
	switch name {
	case "", "rk4":
		return NewRK4(), nil
	case "euler":
		return NewEuler(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}
