package metrics

import (
	"math"

	"github.com/san-kum/controlsim/internal/scene"
)

// Travel accumulates the absolute distance a control's value moved.
type Travel struct {
	name    string
	control string
	sum     float64
	last    float64
	seen    bool
}

func NewTravel(control string) *Travel {
	return &Travel{
		name:    control + ".travel",
		control: control,
	}
}

func (m *Travel) Name() string {
	return m.name
}

func (m *Travel) Observe(f scene.Frame) {
	s, ok := f.Samples[m.control]
	if !ok {
		return
	}
	if m.seen {
		m.sum += math.Abs(s.Value - m.last)
	}
	m.last = s.Value
	m.seen = true
}

func (m *Travel) Value() float64 {
	return m.sum
}

func (m *Travel) Reset() {
	m.sum = 0
	m.last = 0
	m.seen = false
}
