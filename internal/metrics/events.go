package metrics

import "github.com/san-kum/controlsim/internal/scene"

// EventCount counts one event kind for one control.
type EventCount struct {
	name    string
	control string
	kind    string
	n       int
}

func NewEventCount(control, kind string) *EventCount {
	return &EventCount{
		name:    control + "." + kind,
		control: control,
		kind:    kind,
	}
}

func (m *EventCount) Name() string { return m.name }

func (m *EventCount) Observe(f scene.Frame) {
	for _, e := range f.Events {
		if e.Control == m.control && e.Kind == m.kind {
			m.n++
		}
	}
}

func (m *EventCount) Value() float64 { return float64(m.n) }
func (m *EventCount) Reset()         { m.n = 0 }
