package controls

import (
	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/host"
)

const (
	KindButton      = "button"
	KindSlider      = "slider"
	KindDoor        = "door"
	KindPhysicsDoor = "physics_door"
)

var (
	_ controllable.Controllable = (*Button)(nil)
	_ controllable.Controllable = (*Slider)(nil)
	_ controllable.Controllable = (*Door)(nil)
	_ controllable.Controllable = (*PhysicsDoor)(nil)

	_ controllable.Toucher = (*Button)(nil)
	_ controllable.Toucher = (*Slider)(nil)
	_ controllable.Toucher = (*Door)(nil)
	_ controllable.Toucher = (*PhysicsDoor)(nil)

	_ controllable.Grabber = (*Slider)(nil)
	_ controllable.Grabber = (*Door)(nil)
	_ controllable.Grabber = (*PhysicsDoor)(nil)

	_ controllable.Dragger = (*Slider)(nil)
	_ controllable.Dragger = (*Door)(nil)
	_ controllable.Dragger = (*PhysicsDoor)(nil)
)

// contactGate decides which contacts may actuate a control.
type contactGate struct {
	filter host.ContactFilter
}

// SetContactFilter replaces the actuator predicate. Nil restores the default,
// which rejects player body contacts.
func (g *contactGate) SetContactFilter(f host.ContactFilter) {
	g.filter = f
}

func (g *contactGate) accepts(c host.Contact) bool {
	if g.filter == nil {
		return host.ActuatorFilter(c)
	}
	return g.filter(c)
}
