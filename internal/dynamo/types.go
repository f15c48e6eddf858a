package dynamo

import "math"

// State is the integrator-facing state vector of a host-side dynamical body.
type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Axpy returns s + a*other. Missing entries in other count as zero.
func (s State) Axpy(a float64, other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i]
		if i < len(other) {
			result[i] += a * other[i]
		}
	}
	return result
}

type Control []float64

// System is a set of first-order equations dx/dt = f(x, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// DefaultEqualityFidelity is the tolerance shared by pose comparisons and
// value-change debouncing.
const DefaultEqualityFidelity = 0.001
