package metrics

import "github.com/san-kum/controlsim/internal/scene"

// TimeAtLimit is the time a control spent at either limit. A frame counts
// when it ends at a limit.
type TimeAtLimit struct {
	name    string
	control string
	total   float64
	last    float64
}

func NewTimeAtLimit(control string) *TimeAtLimit {
	return &TimeAtLimit{
		name:    control + ".time_at_limit",
		control: control,
	}
}

func (m *TimeAtLimit) Name() string {
	return m.name
}

func (m *TimeAtLimit) Observe(f scene.Frame) {
	dt := f.Time - m.last
	m.last = f.Time
	s, ok := f.Samples[m.control]
	if !ok || dt <= 0 {
		return
	}
	if s.AtMin || s.AtMax {
		m.total += dt
	}
}

func (m *TimeAtLimit) Value() float64 {
	return m.total
}

func (m *TimeAtLimit) Reset() {
	m.total = 0
	m.last = 0
}
