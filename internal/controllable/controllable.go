// Package controllable holds what every interactive control shares: the
// operating axis, the reference pose captured on activation, the limit state
// machine, and the five events listeners subscribe to.
//
// Concrete controls embed a [*Base], add a value/normalization formula, and
// pick an actuator. The host drives them through the small interfaces below:
// [Lifecycle] on enable/disable, [Ticker] once per frame, and [Toucher],
// [Grabber] and [Dragger] for interaction notifications.
package controllable

import (
	"github.com/google/uuid"

	"github.com/san-kum/controlsim/internal/host"
)

type Lifecycle interface {
	Activate()
	Deactivate()
}

// Ticker is advanced once per host frame. EndOfFrame runs after every
// control's Update for the frame.
type Ticker interface {
	Update(dt float64)
	EndOfFrame()
}

type Controllable interface {
	Lifecycle
	Ticker

	ID() uuid.UUID
	Name() string
	Kind() string

	GetValue() float64
	GetNormalizedValue() float64
	AtMinLimit() bool
	AtMaxLimit() bool
	State() State

	Events() *Dispatcher
}

type Toucher interface {
	Touched(c host.Contact)
	Untouched(c host.Contact)
}

type Grabber interface {
	Grabbed(g host.GrabContext)
	Ungrabbed(g host.GrabContext)
}

// Dragger accepts a host-driven drag while grabbed. The value is in the
// control's own units (offset along the axis, or degrees).
type Dragger interface {
	DragTo(value float64)
}

// State is the per-instance mutable record. AtMinLimit and AtMaxLimit are
// never both true.
type State struct {
	AtMinLimit bool
	AtMaxLimit bool
	IsMoving   bool
	IsTouched  bool
}
