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

type PhysicsDoorConfig struct {
	MinimumAngle            float64 `yaml:"minimum_angle"`
	MaximumAngle            float64 `yaml:"maximum_angle"`
	MinMaxThresholdAngle    float64 `yaml:"min_max_threshold_angle"`
	RestingAngle            float64 `yaml:"resting_angle"`
	ForceShutThresholdAngle float64 `yaml:"force_shut_threshold_angle"`
	IsLocked                bool    `yaml:"is_locked"`
	UseFrictionOverrides    bool    `yaml:"use_friction_overrides"`
	GrabbedFriction         float64 `yaml:"grabbed_friction"`
	ReleasedFriction        float64 `yaml:"released_friction"`
}

func DefaultPhysicsDoorConfig() PhysicsDoorConfig {
	return PhysicsDoorConfig{
		MinimumAngle:            -180,
		MaximumAngle:            180,
		MinMaxThresholdAngle:    1,
		ForceShutThresholdAngle: 1,
	}
}

func (c PhysicsDoorConfig) Validate() error {
	if err := validateAngles(c.MinimumAngle, c.MaximumAngle, c.MinMaxThresholdAngle, c.ForceShutThresholdAngle); err != nil {
		return err
	}
	if c.GrabbedFriction < 0 || c.ReleasedFriction < 0 {
		return dynamo.InvalidField("grabbed_friction", "friction must be non-negative")
	}
	return nil
}

// PhysicsDoor is a hinged door integrated by the host's physics. The door
// only configures the joint: limits, a return spring and a rotation lock.
// Configuration fields may be changed between frames; Update picks them up.
type PhysicsDoor struct {
	*controllable.Base
	contactGate

	cfg     PhysicsDoorConfig
	act     *actuator.Physics
	grabbed bool

	// seeking holds the spring on after the resting angle moved, until the
	// door has settled there.
	seeking         bool
	previousValue   float64
	previousResting float64
}

func NewPhysicsDoor(name string, axis dynamo.Axis, transform host.Transform, joint host.Joint, body host.Body, cfg PhysicsDoorConfig, opts ...controllable.Option) *PhysicsDoor {
	return &PhysicsDoor{
		Base: controllable.NewBase(name, axis, transform, opts...),
		cfg:  cfg,
		act:  actuator.NewPhysics(joint, body),
	}
}

func (d *PhysicsDoor) Kind() string                { return KindPhysicsDoor }
func (d *PhysicsDoor) Config() PhysicsDoorConfig   { return d.cfg }
func (d *PhysicsDoor) Actuator() *actuator.Physics { return d.act }
func (d *PhysicsDoor) IsGrabbed() bool             { return d.grabbed }
func (d *PhysicsDoor) Seeking() bool               { return d.seeking }

func (d *PhysicsDoor) Activate() {
	d.Base.Activate()
	d.grabbed = false
	d.act.Reset()
	d.act.SetLimits(d.cfg.MinimumAngle, d.cfg.MaximumAngle)
	d.act.SyncLock(d.cfg.IsLocked)
	d.previousResting = d.cfg.RestingAngle
	d.manageRestingAngle()
	d.previousValue = d.GetValue()
}

func (d *PhysicsDoor) Deactivate() {
	d.grabbed = false
	d.Base.Deactivate()
}

// Update runs after the host's physics step.
func (d *PhysicsDoor) Update(float64) {
	d.checkLock()
	d.manageSpring()
	if d.previousResting != d.cfg.RestingAngle {
		d.manageRestingAngle()
	}
	d.previousResting = d.cfg.RestingAngle
	d.act.SetLimits(d.cfg.MinimumAngle, d.cfg.MaximumAngle)

	v := d.GetValue()
	moving := math.Abs(v-d.previousValue) >= d.EqualityFidelity()
	d.SetMoving(moving)
	if moving {
		d.emitEvents()
	}
	d.previousValue = v
}

func (d *PhysicsDoor) EndOfFrame() {}

func (d *PhysicsDoor) GetValue() float64 {
	return dynamo.WrapAngle(d.LocalEuler().Component(d.Axis()) - d.OriginRotation().Component(d.Axis()))
}

func (d *PhysicsDoor) GetNormalizedValue() float64 {
	return dynamo.Normalize(d.GetValue(), d.cfg.MinimumAngle, d.cfg.MaximumAngle)
}

func (d *PhysicsDoor) IsResting() bool {
	return limits.Resting(d.GetValue(), d.cfg.RestingAngle, d.cfg.MinMaxThresholdAngle)
}

// SetRestingAngle records a new resting angle; the next Update engages the
// spring toward it.
func (d *PhysicsDoor) SetRestingAngle(angle float64) {
	d.cfg.RestingAngle = dynamo.Clamp(angle, d.cfg.MinimumAngle, d.cfg.MaximumAngle)
}

// SetLocked records the lock; the constraint swap happens on the next Update
// or touch notification.
func (d *PhysicsDoor) SetLocked(locked bool) {
	d.cfg.IsLocked = locked
}

func (d *PhysicsDoor) SetUseFrictionOverrides(use bool) { d.cfg.UseFrictionOverrides = use }

func (d *PhysicsDoor) Touched(c host.Contact) {
	if !d.accepts(c) {
		return
	}
	d.Touch(c)
	d.SetTouching(true)
	d.checkLock()
	d.act.SetSpring(true, d.cfg.RestingAngle)
}

func (d *PhysicsDoor) Untouched(host.Contact) {
	d.SetTouching(false)
	d.checkLock()
}

func (d *PhysicsDoor) Grabbed(g host.GrabContext) {
	if !d.accepts(g.Interactor) {
		return
	}
	d.Touch(g.Interactor)
	d.grabbed = true
	d.act.SetSpring(true, d.cfg.RestingAngle)
	if d.cfg.UseFrictionOverrides {
		d.act.SetDrag(d.cfg.GrabbedFriction)
	}
}

func (d *PhysicsDoor) Ungrabbed(host.GrabContext) {
	if !d.grabbed {
		return
	}
	d.grabbed = false
	d.ResetInteractor()
	if d.cfg.UseFrictionOverrides {
		d.act.SetDrag(d.cfg.ReleasedFriction)
	}
}

// DragTo places the hinge at angle when the joint supports direct placement.
func (d *PhysicsDoor) DragTo(angle float64) {
	if !d.grabbed {
		return
	}
	if p, ok := d.act.Joint().(host.Positioner); ok {
		p.SetAngle(angle)
	}
}

func (d *PhysicsDoor) checkLock() {
	if d.act.SyncLock(d.cfg.IsLocked) {
		d.Logger().Debug("door lock changed", zap.Bool("locked", d.cfg.IsLocked))
	}
}

func (d *PhysicsDoor) manageRestingAngle() {
	d.seeking = dynamo.RoundTo(d.GetValue(), 3) != dynamo.RoundTo(d.cfg.RestingAngle, 3)
	d.act.SetSpring(d.seeking, d.cfg.RestingAngle)
}

// manageSpring keeps the spring on while the door is handled, while it seeks
// a new resting angle, and while it hangs within the force-shut band.
func (d *PhysicsDoor) manageSpring() {
	v := d.GetValue()
	if d.seeking && d.IsResting() && math.Abs(v-d.previousValue) < d.EqualityFidelity() {
		d.seeking = false
	}
	nearRest := math.Abs(v-d.cfg.RestingAngle) < d.cfg.ForceShutThresholdAngle
	engaged := d.grabbed || d.Touching() || d.seeking || nearRest
	d.act.SetSpring(engaged, d.cfg.RestingAngle)
}

func (d *PhysicsDoor) emitEvents() {
	a := d.GetValue()
	zone := limits.DoorZone(a, d.cfg.MinimumAngle, d.cfg.MaximumAngle, d.cfg.MinMaxThresholdAngle, d.IsResting())
	d.Publish(a, d.GetNormalizedValue(), zone)
}
