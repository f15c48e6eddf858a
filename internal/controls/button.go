package controls

import (
	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/actuator"
	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/limits"
)

type ButtonConfig struct {
	PressSpeed       float64 `yaml:"press_speed"`
	PressedDistance  float64 `yaml:"pressed_distance"`
	PressedThreshold float64 `yaml:"pressed_threshold"`
	StayPressed      bool    `yaml:"stay_pressed"`
	PositionTarget   float64 `yaml:"position_target"`
	ReturnSpeed      float64 `yaml:"return_speed"`
}

func DefaultButtonConfig() ButtonConfig {
	return ButtonConfig{
		PressSpeed:      10,
		PressedDistance: 0.1,
		ReturnSpeed:     10,
	}
}

func (c ButtonConfig) Validate() error {
	if c.PressedThreshold < 0 || c.PressedThreshold > 1 {
		return dynamo.InvalidField("pressed_threshold", "%v not in [0,1]", c.PressedThreshold)
	}
	if c.PressSpeed <= 0 {
		return dynamo.InvalidField("press_speed", "must be positive")
	}
	if c.ReturnSpeed <= 0 {
		return dynamo.InvalidField("return_speed", "must be positive")
	}
	return nil
}

// Button travels along its axis between the activation pose and
// origin + axis*PressedDistance.
type Button struct {
	*controllable.Base
	contactGate

	cfg ButtonConfig
	kin *actuator.Kinematic
}

func NewButton(name string, axis dynamo.Axis, transform host.Transform, cfg ButtonConfig, opts ...controllable.Option) *Button {
	base := controllable.NewBase(name, axis, transform, opts...)
	return &Button{
		Base: base,
		cfg:  cfg,
		kin:  actuator.NewKinematic(base.EqualityFidelity()),
	}
}

func (b *Button) Kind() string                  { return KindButton }
func (b *Button) Config() ButtonConfig          { return b.cfg }
func (b *Button) Actuator() *actuator.Kinematic { return b.kin }

func (b *Button) Activate() {
	b.kin.Stop()
	b.Base.Activate()
	b.placeAtTarget()
}

func (b *Button) Deactivate() {
	b.kin.Stop()
	b.SetMoving(false)
	b.Base.Deactivate()
}

func (b *Button) Update(dt float64) { b.kin.Tick(dt) }
func (b *Button) EndOfFrame()       { b.kin.EndOfFrame() }

func (b *Button) GetValue() float64 {
	return dynamo.ComponentAlong(b.LocalPosition().Sub(b.Origin()), b.Axis())
}

func (b *Button) GetNormalizedValue() float64 {
	return dynamo.Normalize(b.GetValue(), 0, b.cfg.PressedDistance)
}

func (b *Button) PressedPosition() dynamo.Vec3 {
	return b.Origin().Add(b.AxisDirection().Scale(b.cfg.PressedDistance))
}

func (b *Button) AtTargetPosition(target dynamo.Vec3) bool {
	return dynamo.Near(b.LocalPosition(), target, b.EqualityFidelity())
}

func (b *Button) AtPressedPosition() bool { return b.AtTargetPosition(b.PressedPosition()) }
func (b *Button) AtOriginPosition() bool  { return b.AtTargetPosition(b.Origin()) }
func (b *Button) IsPressed() bool         { return b.AtPressedPosition() }

// SetStayPressed changes the hold policy; releasing the hold while pressed
// sends the button home.
func (b *Button) SetStayPressed(stay bool) {
	b.cfg.StayPressed = stay
	if !stay && b.AtPressedPosition() {
		b.returnToOrigin()
	}
}

// SetPositionTarget places the button at the given fraction of its travel,
// abandoning any convergence in flight.
func (b *Button) SetPositionTarget(normalized float64) {
	b.cfg.PositionTarget = dynamo.Clamp01(normalized)
	b.kin.Cancel()
	b.SetMoving(false)
	b.placeAtTarget()
	if b.Active() {
		b.checkEvents()
	}
}

func (b *Button) Touched(c host.Contact) {
	if !b.accepts(c) {
		return
	}
	b.Touch(c)
	if !b.kin.Moving() {
		target, speed := b.PressedPosition(), b.cfg.PressSpeed
		if !b.cfg.StayPressed && b.AtPressedPosition() {
			target, speed = b.Origin(), b.cfg.ReturnSpeed
		}
		if !b.AtTargetPosition(target) {
			b.moveTo(target, speed)
		}
	}
	b.SetTouching(true)
}

func (b *Button) Untouched(host.Contact) {
	b.SetTouching(false)
}

func (b *Button) placeAtTarget() {
	if t := b.Transform(); t != nil {
		t.SetLocalPosition(dynamo.Lerp(b.Origin(), b.PressedPosition(), b.cfg.PositionTarget))
	}
}

func (b *Button) returnToOrigin() {
	b.moveTo(b.Origin(), b.cfg.ReturnSpeed)
}

func (b *Button) moveTo(target dynamo.Vec3, speed float64) {
	b.Logger().Debug("button converging",
		zap.Stringer("target", target),
		zap.Float64("speed", speed))
	b.kin.Start(actuator.PositionChannel{Transform: b.Transform()}, actuator.Target{Value: target, Rate: speed},
		func() {
			b.SetMoving(true)
			b.checkEvents()
		},
		b.arrived)
}

func (b *Button) arrived() {
	b.SetMoving(false)
	b.checkEvents()

	if b.AtPressedPosition() {
		if b.cfg.StayPressed {
			b.ResetInteractor()
		} else if !b.AtOriginPosition() {
			b.returnToOrigin()
		}
	}
	if b.AtOriginPosition() && !b.Touching() {
		b.ResetInteractor()
	}
}

func (b *Button) checkEvents() {
	n := b.GetNormalizedValue()
	b.Publish(b.GetValue(), n, limits.BandZone(n, b.cfg.PressedThreshold))
}
