// Package scene runs controls, host bodies and scripted input on a shared
// frame clock. Each frame runs in a fixed order: drivers, bodies, control
// updates, end-of-frame callbacks, then observers and metrics.
package scene

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/dynamo"
)

type Option func(*Scene)

func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

type Scene struct {
	controls  []controllable.Controllable
	byName    map[string]controllable.Controllable
	bodies    []Stepper
	drivers   []Driver
	observers []Observer
	metrics   []Metric

	log    *zap.Logger
	active bool
	subs   []*controllable.Subscription

	frame   int
	time    float64
	now     float64
	pending []EventRecord
}

func New(opts ...Option) *Scene {
	s := &Scene{
		byName: make(map[string]controllable.Controllable),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scene) Add(c controllable.Controllable) error {
	if _, dup := s.byName[c.Name()]; dup {
		return fmt.Errorf("control %q already added", c.Name())
	}
	s.controls = append(s.controls, c)
	s.byName[c.Name()] = c
	return nil
}

func (s *Scene) AddBody(b Stepper)      { s.bodies = append(s.bodies, b) }
func (s *Scene) AddDriver(d Driver)     { s.drivers = append(s.drivers, d) }
func (s *Scene) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Scene) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Scene) Logger() *zap.Logger    { return s.log }
func (s *Scene) Time() float64          { return s.time }
func (s *Scene) FrameIndex() int        { return s.frame }
func (s *Scene) Active() bool           { return s.active }

func (s *Scene) Controls() []controllable.Controllable { return s.controls }

func (s *Scene) Control(name string) (controllable.Controllable, error) {
	c, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownControl, name)
	}
	return c, nil
}

// Activate enables every control in insertion order and starts recording
// their events.
func (s *Scene) Activate() {
	if s.active {
		return
	}
	s.frame, s.time, s.now = 0, 0, 0
	s.pending = nil
	for _, c := range s.controls {
		name := c.Name()
		s.subs = append(s.subs, c.Events().SubscribeAll(func(e controllable.Event) {
			s.pending = append(s.pending, EventRecord{
				Frame:      s.frame,
				Time:       s.now,
				Control:    name,
				Kind:       e.Kind.String(),
				Value:      e.Value,
				Normalized: e.NormalizedValue,
				Interactor: e.Interactor,
			})
		}))
	}
	for _, c := range s.controls {
		c.Activate()
	}
	s.active = true
	s.log.Debug("scene activated", zap.Int("controls", len(s.controls)), zap.Int("bodies", len(s.bodies)))
}

func (s *Scene) Deactivate() {
	if !s.active {
		return
	}
	for _, c := range s.controls {
		c.Deactivate()
	}
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
	s.active = false
	s.log.Debug("scene deactivated", zap.Int("frames", s.frame), zap.Float64("time", s.time))
}

// Step advances one frame of dt seconds.
func (s *Scene) Step(dt float64) (Frame, error) {
	if !s.active {
		s.Activate()
	}
	s.frame++
	s.now = s.time + dt

	for _, d := range s.drivers {
		if err := d.Drive(s, s.now); err != nil {
			return Frame{}, fmt.Errorf("frame %d: %w", s.frame, err)
		}
	}
	for _, b := range s.bodies {
		b.Step(dt)
	}
	for _, c := range s.controls {
		c.Update(dt)
	}
	for _, c := range s.controls {
		c.EndOfFrame()
	}
	s.time = s.now

	f := s.snapshot()
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	for _, m := range s.metrics {
		m.Observe(f)
	}
	return f, nil
}

// Run activates the scene, steps it for cfg.Duration and deactivates it.
// Frame 0 holds the state straight after activation.
func (s *Scene) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Traces:  make(map[string][]Sample, len(s.controls)),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	s.Deactivate()
	s.Activate()
	defer s.Deactivate()

	result.record(s.snapshot())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f, err := s.Step(cfg.Dt)
		if err != nil {
			return result, err
		}
		result.record(f)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Scene) snapshot() Frame {
	f := Frame{
		Index:   s.frame,
		Time:    s.time,
		Samples: make(map[string]Sample, len(s.controls)),
		Events:  s.pending,
	}
	s.pending = nil
	for _, c := range s.controls {
		st := c.State()
		f.Samples[c.Name()] = Sample{
			Value:      c.GetValue(),
			Normalized: c.GetNormalizedValue(),
			AtMin:      st.AtMinLimit,
			AtMax:      st.AtMaxLimit,
			Moving:     st.IsMoving,
			Touched:    st.IsTouched,
		}
	}
	return f
}

func (r *Result) record(f Frame) {
	r.Times = append(r.Times, f.Time)
	for name, sample := range f.Samples {
		r.Traces[name] = append(r.Traces[name], sample)
	}
	r.Events = append(r.Events, f.Events...)
	r.Frames = f.Index
}
