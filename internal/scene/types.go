package scene

import "github.com/san-kum/controlsim/internal/dynamo"

// Stepper is a host physics body advanced ahead of the controls each frame.
type Stepper interface {
	Step(dt float64)
}

// Driver feeds scripted input into the scene at the start of a frame.
type Driver interface {
	Drive(s *Scene, t float64) error
}

type Observer interface {
	OnFrame(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Config struct {
	Dt       float64 `yaml:"dt" json:"dt"`
	Duration float64 `yaml:"duration" json:"duration"`
}

func DefaultConfig() Config {
	return Config{Dt: 1.0 / 60, Duration: 3}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return dynamo.InvalidField("dt", "must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return dynamo.InvalidField("duration", "must be positive, got %f", c.Duration)
	}
	return nil
}

// Sample is one control's state at the end of a frame.
type Sample struct {
	Value      float64 `json:"value"`
	Normalized float64 `json:"normalized"`
	AtMin      bool    `json:"at_min"`
	AtMax      bool    `json:"at_max"`
	Moving     bool    `json:"moving"`
	Touched    bool    `json:"touched"`
}

type EventRecord struct {
	Frame      int     `json:"frame"`
	Time       float64 `json:"time"`
	Control    string  `json:"control"`
	Kind       string  `json:"kind"`
	Value      float64 `json:"value"`
	Normalized float64 `json:"normalized"`
	Interactor string  `json:"interactor,omitempty"`
}

type Frame struct {
	Index   int
	Time    float64
	Samples map[string]Sample
	Events  []EventRecord
}

type Result struct {
	Times   []float64
	Traces  map[string][]Sample
	Events  []EventRecord
	Metrics map[string]float64
	Frames  int
}

// Trace returns the value series for one control.
func (r *Result) Trace(control string) []float64 {
	samples := r.Traces[control]
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

func (r *Result) CountEvents(control, kind string) int {
	n := 0
	for _, e := range r.Events {
		if e.Control == control && e.Kind == kind {
			n++
		}
	}
	return n
}

type DriverFunc func(s *Scene, t float64) error

func (f DriverFunc) Drive(s *Scene, t float64) error { return f(s, t) }

type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }
