package controls

import (
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/actuator"
	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/limits"
)

type SliderConfig struct {
	MaximumLength                 float64    `yaml:"maximum_length"`
	RestingPosition               float64    `yaml:"resting_position"`
	ForceRestingPositionThreshold float64    `yaml:"force_resting_position_threshold"`
	StepValueRange                [2]float64 `yaml:"step_value_range,flow"`
	StepSize                      float64    `yaml:"step_size"`
	UseStepAsValue                bool       `yaml:"use_step_as_value"`
	SnapToStep                    bool       `yaml:"snap_to_step"`
	SnapForce                     float64    `yaml:"snap_force"`
}

func DefaultSliderConfig() SliderConfig {
	return SliderConfig{
		MaximumLength:  0.1,
		StepValueRange: [2]float64{0, 1},
		StepSize:       0.1,
		UseStepAsValue: true,
		SnapForce:      10,
	}
}

func (c SliderConfig) Validate() error {
	if c.MaximumLength == 0 {
		return dynamo.InvalidField("maximum_length", "must be non-zero")
	}
	if c.StepSize < 0 {
		return dynamo.InvalidField("step_size", "%v is negative", c.StepSize)
	}
	if c.ForceRestingPositionThreshold < 0 {
		return dynamo.InvalidField("force_resting_position_threshold", "%v is negative", c.ForceRestingPositionThreshold)
	}
	return nil
}

// Slider travels between its activation pose and origin + axis*MaximumLength.
// Its reported value is either the offset along the axis or, with
// UseStepAsValue, the offset quantized onto the step grid.
type Slider struct {
	*controllable.Base
	contactGate

	cfg     SliderConfig
	kin     *actuator.Kinematic
	grabbed bool

	reported     bool
	previousStep float64
	previousPos  dynamo.Vec3
}

func NewSlider(name string, axis dynamo.Axis, transform host.Transform, cfg SliderConfig, opts ...controllable.Option) *Slider {
	base := controllable.NewBase(name, axis, transform, opts...)
	return &Slider{
		Base: base,
		cfg:  cfg,
		kin:  actuator.NewKinematic(base.EqualityFidelity()),
	}
}

func (s *Slider) Kind() string                  { return KindSlider }
func (s *Slider) Config() SliderConfig          { return s.cfg }
func (s *Slider) Actuator() *actuator.Kinematic { return s.kin }

// Activate settles the slider on its resting position at the end of the
// frame, once the host has placed it.
func (s *Slider) Activate() {
	s.kin.Stop()
	s.Base.Activate()
	s.grabbed = false
	s.reported = false
	s.kin.Defer(func() {
		s.snapToResting(0)
		if s.cfg.SnapToStep {
			s.SetRestingPositionWithStepValue(s.StepValue(s.GetValue()), s.cfg.SnapForce, true)
		}
		s.emitEvents()
	})
}

func (s *Slider) Deactivate() {
	s.kin.Stop()
	s.SetMoving(false)
	s.grabbed = false
	s.Base.Deactivate()
}

func (s *Slider) Update(dt float64) { s.kin.Tick(dt) }
func (s *Slider) EndOfFrame()       { s.kin.EndOfFrame() }

// GetValue is the offset from the activation pose along the axis.
func (s *Slider) GetValue() float64 {
	return dynamo.ComponentAlong(s.LocalPosition().Sub(s.Origin()), s.Axis())
}

func (s *Slider) GetNormalizedValue() float64 {
	return dynamo.Normalize(s.GetValue(), 0, s.cfg.MaximumLength)
}

// StepValue maps an axis offset onto the step grid.
func (s *Slider) StepValue(offset float64) float64 {
	lo, hi := s.cfg.StepValueRange[0], s.cfg.StepValueRange[1]
	ratio := 0.0
	if s.cfg.MaximumLength != 0 {
		ratio = dynamo.Clamp01(offset / s.cfg.MaximumLength)
	}
	raw := lo + ratio*(hi-lo)
	if s.cfg.StepSize <= 0 {
		return raw
	}
	return math.Round(raw/s.cfg.StepSize) * s.cfg.StepSize
}

// ReportedValue is the value carried by events.
func (s *Slider) ReportedValue() float64 {
	if s.cfg.UseStepAsValue {
		return s.StepValue(s.GetValue())
	}
	return s.GetValue()
}

// PositionFromStepValue returns the axis offset at which StepValue would
// report step.
func (s *Slider) PositionFromStepValue(step float64) float64 {
	n := dynamo.Normalize(step, s.cfg.StepValueRange[0], s.cfg.StepValueRange[1])
	return dynamo.LerpScalar(0, s.cfg.MaximumLength, n)
}

func (s *Slider) IsResting() bool {
	n := s.GetNormalizedValue()
	thr := s.cfg.ForceRestingPositionThreshold
	return n <= s.cfg.RestingPosition+thr && n >= s.cfg.RestingPosition-thr
}

// SetRestingPosition sets the normalized resting position. The slider moves
// there at speed when forced or already resting; speed 0 places it at once.
func (s *Slider) SetRestingPosition(normalized, speed float64, force bool) {
	s.cfg.RestingPosition = normalized
	if force || s.IsResting() {
		s.snapToResting(speed)
	}
}

func (s *Slider) SetRestingPositionWithStepValue(step, speed float64, force bool) {
	s.SetRestingPosition(dynamo.Normalize(step, s.cfg.StepValueRange[0], s.cfg.StepValueRange[1]), speed, force)
}

func (s *Slider) SetStepRange(lo, hi, size float64) {
	s.cfg.StepValueRange = [2]float64{lo, hi}
	s.cfg.StepSize = size
}

func (s *Slider) Touched(c host.Contact) {
	if !s.accepts(c) {
		return
	}
	s.Touch(c)
	s.SetTouching(true)
}

func (s *Slider) Untouched(host.Contact) {
	s.SetTouching(false)
}

func (s *Slider) Grabbed(g host.GrabContext) {
	if !s.accepts(g.Interactor) {
		return
	}
	s.Touch(g.Interactor)
	s.grabbed = true
	s.kin.Stop()
	s.SetMoving(false)
}

// DragTo moves the grabbed slider to offset, clamped to its travel.
func (s *Slider) DragTo(offset float64) {
	if !s.grabbed {
		return
	}
	lo, hi := math.Min(0, s.cfg.MaximumLength), math.Max(0, s.cfg.MaximumLength)
	s.place(dynamo.Clamp(offset, lo, hi))
	s.emitEvents()
}

// Ungrabbed defers the step snap and forced return to the end of the frame so
// they read the position the host settled on.
func (s *Slider) Ungrabbed(host.GrabContext) {
	if !s.grabbed {
		return
	}
	s.grabbed = false
	s.ResetInteractor()
	s.kin.Defer(func() {
		if s.cfg.SnapToStep {
			s.SetRestingPositionWithStepValue(s.StepValue(s.GetValue()), s.cfg.SnapForce, true)
		}
		if s.forceResting() {
			s.snapToResting(s.cfg.SnapForce)
		}
	})
}

func (s *Slider) IsGrabbed() bool { return s.grabbed }

func (s *Slider) forceResting() bool {
	thr := s.cfg.ForceRestingPositionThreshold
	return thr > 0 && !s.grabbed && math.Abs(s.cfg.RestingPosition-s.GetNormalizedValue()) <= thr
}

func (s *Slider) snapToResting(speed float64) {
	s.snapTo(dynamo.LerpScalar(0, s.cfg.MaximumLength, s.cfg.RestingPosition), speed)
}

func (s *Slider) snapTo(offset, speed float64) {
	if speed <= 0 {
		s.kin.Cancel()
		s.SetMoving(false)
		s.place(offset)
		s.emitEvents()
		return
	}
	target := s.Origin().Add(s.AxisDirection().Scale(offset))
	s.Logger().Debug("slider snapping",
		zap.Float64("offset", offset),
		zap.Float64("speed", speed))
	s.kin.Start(actuator.PositionChannel{Transform: s.Transform()}, actuator.Target{Value: target, Rate: speed},
		func() {
			s.SetMoving(true)
			s.emitEvents()
		},
		func() {
			s.SetMoving(false)
			s.emitEvents()
		})
}

func (s *Slider) place(offset float64) {
	if t := s.Transform(); t != nil {
		t.SetLocalPosition(s.Origin().Add(s.AxisDirection().Scale(offset)))
	}
}

func (s *Slider) emitEvents() {
	n := s.GetNormalizedValue()
	step := s.StepValue(s.GetValue())
	pos := s.LocalPosition()

	var changed bool
	if s.cfg.UseStepAsValue {
		changed = !s.reported || step != s.previousStep
	} else {
		changed = !s.reported || !dynamo.Near(pos, s.previousPos, s.EqualityFidelity())
	}
	s.reported = true
	s.previousStep = step
	s.previousPos = pos

	s.Report(s.ReportedValue(), n, limits.BandZone(n, s.limitBand()), changed)
}

// limitBand is the width of the reached/exited band at each end of the
// normalized travel. It follows the travel length, so longer sliders have a
// wider band.
func (s *Slider) limitBand() float64 {
	return math.Abs(s.cfg.MaximumLength)
}
