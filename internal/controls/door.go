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

// DoorConfig angles are degrees about the operating axis, relative to the
// activation pose.
type DoorConfig struct {
	MinimumAngle            float64 `yaml:"minimum_angle"`
	MaximumAngle            float64 `yaml:"maximum_angle"`
	MinMaxThresholdAngle    float64 `yaml:"min_max_threshold_angle"`
	RestingAngle            float64 `yaml:"resting_angle"`
	ForceShutThresholdAngle float64 `yaml:"force_shut_threshold_angle"`
	IsLocked                bool    `yaml:"is_locked"`
	GrabbedFriction         float64 `yaml:"grabbed_friction"`
	ReleasedFriction        float64 `yaml:"released_friction"`
}

func DefaultDoorConfig() DoorConfig {
	return DoorConfig{
		MinimumAngle:            -180,
		MaximumAngle:            180,
		MinMaxThresholdAngle:    1,
		ForceShutThresholdAngle: 1,
		GrabbedFriction:         1,
		ReleasedFriction:        1,
	}
}

func (c DoorConfig) Validate() error {
	return validateAngles(c.MinimumAngle, c.MaximumAngle, c.MinMaxThresholdAngle, c.ForceShutThresholdAngle)
}

func validateAngles(lo, hi, minMax, forceShut float64) error {
	if lo < -180 || lo > 180 {
		return dynamo.InvalidField("minimum_angle", "%v not in [-180,180]", lo)
	}
	if hi < -180 || hi > 180 {
		return dynamo.InvalidField("maximum_angle", "%v not in [-180,180]", hi)
	}
	if lo >= hi {
		return dynamo.InvalidField("minimum_angle", "%v must be below maximum %v", lo, hi)
	}
	if minMax < 0 {
		return dynamo.InvalidField("min_max_threshold_angle", "%v is negative", minMax)
	}
	if forceShut < 0 {
		return dynamo.InvalidField("force_shut_threshold_angle", "%v is negative", forceShut)
	}
	return nil
}

// Door is a hinged door moved by the host while grabbed and swung back to
// its resting angle by interpolation.
type Door struct {
	*controllable.Base
	contactGate

	cfg     DoorConfig
	kin     *actuator.Kinematic
	grabbed bool
	reset   bool

	liveMin, liveMax float64
}

func NewDoor(name string, axis dynamo.Axis, transform host.Transform, cfg DoorConfig, opts ...controllable.Option) *Door {
	base := controllable.NewBase(name, axis, transform, opts...)
	return &Door{
		Base: base,
		cfg:  cfg,
		kin:  actuator.NewKinematic(base.EqualityFidelity()),
	}
}

func (d *Door) Kind() string                  { return KindDoor }
func (d *Door) Config() DoorConfig            { return d.cfg }
func (d *Door) Actuator() *actuator.Kinematic { return d.kin }
func (d *Door) IsGrabbed() bool               { return d.grabbed }

func (d *Door) Activate() {
	d.kin.Stop()
	d.Base.Activate()
	d.grabbed = false
	d.reset = false
	d.liveMin, d.liveMax = d.cfg.MinimumAngle, d.cfg.MaximumAngle
	d.SetRestingAngle(d.cfg.RestingAngle, true)
}

func (d *Door) Deactivate() {
	d.kin.Stop()
	d.SetMoving(false)
	d.grabbed = false
	d.Base.Deactivate()
}

func (d *Door) Update(dt float64) {
	d.kin.Tick(dt)
	d.applyLock()
}

func (d *Door) EndOfFrame() { d.kin.EndOfFrame() }

// GetValue is the hinge angle in (-180, 180].
func (d *Door) GetValue() float64 {
	return dynamo.WrapAngle(d.LocalEuler().Component(d.Axis()) - d.OriginRotation().Component(d.Axis()))
}

func (d *Door) GetNormalizedValue() float64 {
	return dynamo.Normalize(d.GetValue(), d.cfg.MinimumAngle, d.cfg.MaximumAngle)
}

func (d *Door) IsResting() bool {
	return limits.Resting(d.GetValue(), d.cfg.RestingAngle, d.cfg.MinMaxThresholdAngle)
}

// Limits are the angles a drag is currently clamped to.
func (d *Door) Limits() (float64, float64) { return d.liveMin, d.liveMax }

// SetRestingAngle clamps angle into range and records it. When forced, or
// when the door already rests, the door is placed there immediately.
func (d *Door) SetRestingAngle(angle float64, force bool) {
	angle = dynamo.Clamp(angle, d.cfg.MinimumAngle, d.cfg.MaximumAngle)
	if force || d.IsResting() {
		d.kin.Cancel()
		d.SetMoving(false)
		d.place(angle)
	}
	d.cfg.RestingAngle = angle
	d.emitEvents()
}

func (d *Door) SetLocked(locked bool) {
	d.cfg.IsLocked = locked
	d.applyLock()
}

func (d *Door) Touched(c host.Contact) {
	if !d.accepts(c) {
		return
	}
	d.Touch(c)
	d.SetTouching(true)
}

func (d *Door) Untouched(host.Contact) {
	d.SetTouching(false)
}

func (d *Door) Grabbed(g host.GrabContext) {
	if !d.accepts(g.Interactor) {
		return
	}
	d.Touch(g.Interactor)
	d.grabbed = true
	d.kin.Cancel()
	d.SetMoving(false)
	d.applyLock()
}

// DragTo swings the grabbed door to angle, clamped to the live limits.
func (d *Door) DragTo(angle float64) {
	if !d.grabbed {
		return
	}
	d.place(dynamo.Clamp(angle, d.liveMin, d.liveMax))
	d.emitEvents()
}

// Ungrabbed swings the door shut only when it was released near rest.
func (d *Door) Ungrabbed(host.GrabContext) {
	if !d.grabbed {
		return
	}
	d.grabbed = false
	d.ResetInteractor()
	d.reset = false
	d.resetRotation()
}

func (d *Door) resetRotation() {
	if d.reset {
		return
	}
	current := d.GetValue()
	if math.Abs(current-d.cfg.RestingAngle) > d.cfg.ForceShutThresholdAngle {
		return
	}
	d.reset = true

	rate := d.cfg.ReleasedFriction * 10
	d.Logger().Debug("door swinging shut",
		zap.Float64("from", current),
		zap.Float64("to", d.cfg.RestingAngle),
		zap.Float64("rate", rate))
	ch := actuator.AngleChannel{Get: d.GetValue, Set: d.place}
	d.kin.Start(ch, actuator.Target{Value: dynamo.Vec3{X: d.cfg.RestingAngle}, Rate: rate},
		func() {
			d.SetMoving(true)
			d.emitEvents()
		},
		func() {
			d.SetMoving(false)
			d.emitEvents()
		})
}

// applyLock collapses the live limits onto the current angle while the door
// rests locked, and restores the full range otherwise.
func (d *Door) applyLock() {
	if d.cfg.IsLocked && d.IsResting() {
		a := d.GetValue()
		d.liveMin, d.liveMax = a, a
	} else {
		d.liveMin, d.liveMax = d.cfg.MinimumAngle, d.cfg.MaximumAngle
	}
}

func (d *Door) rotationAt(angle float64) dynamo.Vec3 {
	ref := d.OriginRotation()
	return actuator.WrapEuler(ref.With(d.Axis(), ref.Component(d.Axis())+angle))
}

func (d *Door) place(angle float64) {
	if t := d.Transform(); t != nil {
		t.SetLocalEuler(d.rotationAt(angle))
	}
}

func (d *Door) emitEvents() {
	a := d.GetValue()
	zone := limits.DoorZone(a, d.cfg.MinimumAngle, d.cfg.MaximumAngle, d.cfg.MinMaxThresholdAngle, d.IsResting())
	d.Publish(a, d.GetNormalizedValue(), zone)
}
