// Package actuator moves a control's transform. Kinematic interpolates a
// position or rotation toward a target once per frame; Physics configures a
// host hinge joint and rigid body and lets the host integrate.
package actuator

import (
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
)

// Channel is the transform property a convergence drives.
type Channel interface {
	Read() dynamo.Vec3
	Write(v dynamo.Vec3)
}

type PositionChannel struct {
	Transform host.Transform
}

func (c PositionChannel) Read() dynamo.Vec3 {
	if c.Transform == nil {
		return dynamo.Vec3{}
	}
	return c.Transform.LocalPosition()
}

func (c PositionChannel) Write(v dynamo.Vec3) {
	if c.Transform != nil {
		c.Transform.SetLocalPosition(v)
	}
}

// AngleChannel drives one angle through its owner's accessors, so the
// interpolation runs in the owner's frame rather than on wrapped euler
// angles. The angle travels in X.
type AngleChannel struct {
	Get func() float64
	Set func(angle float64)
}

func (c AngleChannel) Read() dynamo.Vec3 {
	if c.Get == nil {
		return dynamo.Vec3{}
	}
	return dynamo.Vec3{X: c.Get()}
}

func (c AngleChannel) Write(v dynamo.Vec3) {
	if c.Set != nil {
		c.Set(v.X)
	}
}

func WrapEuler(e dynamo.Vec3) dynamo.Vec3 {
	return dynamo.Vec3{
		X: dynamo.WrapAngle(e.X),
		Y: dynamo.WrapAngle(e.Y),
		Z: dynamo.WrapAngle(e.Z),
	}
}

// Target is a desired channel value and the interpolation rate per second.
type Target struct {
	Value dynamo.Vec3
	Rate  float64
}

// Kinematic runs at most one convergence at a time plus at most one pending
// end-of-frame callback.
type Kinematic struct {
	Epsilon float64

	channel Channel
	target  Target
	active  bool
	onStep  func()
	onDone  func()

	deferred func()

	gen       uint64
	started   int
	completed int
	cancelled int
}

func NewKinematic(epsilon float64) *Kinematic {
	if epsilon <= 0 {
		epsilon = dynamo.DefaultEqualityFidelity
	}
	return &Kinematic{Epsilon: epsilon}
}

// Start replaces any running convergence. A channel already within Epsilon of
// the target is snapped and onDone runs before Start returns; otherwise the
// first interpolation step happens on the next Tick.
func (k *Kinematic) Start(ch Channel, target Target, onStep, onDone func()) {
	k.Cancel()
	if ch == nil {
		return
	}
	k.started++
	if dynamo.Near(ch.Read(), target.Value, k.Epsilon) {
		ch.Write(target.Value)
		k.completed++
		if onDone != nil {
			onDone()
		}
		return
	}
	k.channel = ch
	k.target = target
	k.onStep = onStep
	k.onDone = onDone
	k.active = true
}

// Tick advances the running convergence by dt seconds.
func (k *Kinematic) Tick(dt float64) {
	if !k.active || dt <= 0 {
		return
	}
	next := dynamo.Lerp(k.channel.Read(), k.target.Value, k.target.Rate*dt)
	k.channel.Write(next)
	if k.onStep != nil {
		gen := k.gen
		k.onStep()
		if k.gen != gen {
			// onStep started or cancelled a convergence
			return
		}
	}
	if !dynamo.Near(next, k.target.Value, k.Epsilon) {
		return
	}

	k.channel.Write(k.target.Value)
	done := k.onDone
	k.clear()
	k.completed++
	if done != nil {
		done()
	}
}

// Cancel stops the running convergence, leaving the channel at its last
// written value.
func (k *Kinematic) Cancel() {
	if k.active {
		k.cancelled++
	}
	k.clear()
}

func (k *Kinematic) Moving() bool { return k.active }

func (k *Kinematic) Target() (Target, bool) { return k.target, k.active }

// Defer schedules fn to run once at the end of the current frame, replacing
// any callback already pending.
func (k *Kinematic) Defer(fn func()) { k.deferred = fn }

func (k *Kinematic) Deferred() bool { return k.deferred != nil }

func (k *Kinematic) CancelDeferred() { k.deferred = nil }

func (k *Kinematic) EndOfFrame() {
	fn := k.deferred
	k.deferred = nil
	if fn != nil {
		fn()
	}
}

// Stop cancels both the convergence and the pending callback.
func (k *Kinematic) Stop() {
	k.Cancel()
	k.CancelDeferred()
}

// Stats reports how many convergences were started, completed and cancelled.
func (k *Kinematic) Stats() (started, completed, cancelled int) {
	return k.started, k.completed, k.cancelled
}

func (k *Kinematic) clear() {
	k.gen++
	k.active = false
	k.channel = nil
	k.target = Target{}
	k.onStep = nil
	k.onDone = nil
}
