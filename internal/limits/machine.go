// Package limits derives discrete min/max limit events from a continuous
// actuation value.
//
// A [Machine] holds one of three states and turns a [Zone] classification into
// the reached/exited transitions needed to get there. Classification is kept
// separate from the machine because each control type uses its own boundary
// formula: buttons and sliders use a symmetric hysteresis band over the
// normalized value ([BandZone]), doors compare raw angles against the resting
// angle and the swing extremes ([DoorZone]).
package limits

import "fmt"

type State int

const (
	InRange State = iota
	AtMin
	AtMax
)

func (s State) String() string {
	switch s {
	case AtMin:
		return "at_min"
	case AtMax:
		return "at_max"
	default:
		return "in_range"
	}
}

// Zone is where a classifier places the current value.
type Zone int

const (
	// ZoneNone leaves the machine untouched.
	ZoneNone Zone = iota
	ZoneInRange
	ZoneMin
	ZoneMax
)

func (z Zone) String() string {
	switch z {
	case ZoneInRange:
		return "in_range"
	case ZoneMin:
		return "min"
	case ZoneMax:
		return "max"
	default:
		return "none"
	}
}

type Transition int

const (
	MinReached Transition = iota
	MinExited
	MaxReached
	MaxExited
)

func (t Transition) String() string {
	switch t {
	case MinReached:
		return "min_reached"
	case MinExited:
		return "min_exited"
	case MaxReached:
		return "max_reached"
	case MaxExited:
		return "max_exited"
	default:
		return fmt.Sprintf("transition(%d)", int(t))
	}
}

// Machine tracks the limit state of a single controllable. The zero value
// starts InRange.
type Machine struct {
	state State
}

func (m *Machine) State() State { return m.state }
func (m *Machine) AtMin() bool  { return m.state == AtMin }
func (m *Machine) AtMax() bool  { return m.state == AtMax }

func (m *Machine) Reset() {
	m.state = InRange
}

// Evaluate moves the machine into zone and returns the transitions that move
// produced, in emission order. Evaluating the zone the machine already sits in
// returns nil.
func (m *Machine) Evaluate(zone Zone) []Transition {
	switch zone {
	case ZoneMax:
		if m.state == AtMax {
			return nil
		}
		out := make([]Transition, 0, 2)
		if m.state == AtMin {
			out = append(out, MinExited)
		}
		m.state = AtMax
		return append(out, MaxReached)
	case ZoneMin:
		if m.state == AtMin {
			return nil
		}
		out := make([]Transition, 0, 2)
		if m.state == AtMax {
			out = append(out, MaxExited)
		}
		m.state = AtMin
		return append(out, MinReached)
	case ZoneInRange:
		prev := m.state
		m.state = InRange
		switch prev {
		case AtMin:
			return []Transition{MinExited}
		case AtMax:
			return []Transition{MaxExited}
		}
	}
	return nil
}
