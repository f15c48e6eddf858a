package physics

import (
	"math"

	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
)

const DefaultInertia = 1.0

var (
	_ host.Joint      = (*Hinge)(nil)
	_ host.Body       = (*Hinge)(nil)
	_ host.Positioner = (*Hinge)(nil)
	_ host.Torquer    = (*Hinge)(nil)
	_ host.Rebaser    = (*Hinge)(nil)
)

type Hinge struct {
	Inertia float64

	transform  host.Transform
	axis       dynamo.Axis
	base       dynamo.Vec3
	integrator dynamo.Integrator

	state       dynamo.State
	t           float64
	torque      float64
	min, max    float64
	spring      host.Spring
	springOn    bool
	constraints host.Constraints
	drag        float64
}

func NewHinge(transform host.Transform, axis dynamo.Axis, integrator dynamo.Integrator) *Hinge {
	h := &Hinge{
		Inertia:    DefaultInertia,
		transform:  transform,
		axis:       axis,
		integrator: integrator,
		state:      dynamo.State{0, 0},
		min:        -180,
		max:        180,
	}
	if transform != nil {
		h.base = transform.LocalEuler()
	}
	return h
}

func (h *Hinge) StateDim() int   { return 2 }
func (h *Hinge) ControlDim() int { return 1 }

// Derive returns d/dt of (angle, angular velocity) in degrees.
func (h *Hinge) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	angle, omega := x[0], x[1]

	torque := 0.0
	if len(u) > 0 {
		torque = u[0]
	}
	if h.springOn {
		torque += h.spring.Stiffness*(h.spring.Target-angle) - h.spring.Damper*omega
	}

	inertia := h.Inertia
	if inertia <= 0 {
		inertia = DefaultInertia
	}
	torque -= h.drag * inertia * omega

	return dynamo.State{omega, torque / inertia}
}

// Step advances the hinge by dt and writes the resulting angle to the
// transform. Applied torque is consumed by the step.
func (h *Hinge) Step(dt float64) {
	defer func() { h.torque = 0 }()
	if dt <= 0 {
		return
	}
	if h.frozen() {
		h.state[1] = 0
		return
	}

	next := h.integrator.Step(h, h.state, dynamo.Control{h.torque}, h.t, dt)
	if !next.IsValid() {
		next = dynamo.State{h.state[0], 0}
	}
	h.t += dt
	h.state = next
	h.clampToLimits()
	h.writeTransform()
}

// ApplyTorque adds torque for the next step only.
func (h *Hinge) ApplyTorque(torque float64) {
	h.torque += torque
}

// SetAngle places the hinge at angle with zero velocity, as a grabbing hand
// would. Ignored while rotation is frozen.
func (h *Hinge) SetAngle(angle float64) {
	if h.frozen() {
		return
	}
	h.state = dynamo.State{angle, 0}
	h.clampToLimits()
	h.writeTransform()
}

// Rebase makes the transform's current pose angle zero and stops the hinge.
func (h *Hinge) Rebase() {
	if h.transform != nil {
		h.base = h.transform.LocalEuler()
	}
	h.state = dynamo.State{0, 0}
	h.torque = 0
}

func (h *Hinge) Angle() float64           { return h.state[0] }
func (h *Hinge) AngularVelocity() float64 { return h.state[1] }

func (h *Hinge) Limits() (float64, float64) { return h.min, h.max }

func (h *Hinge) SetLimits(min, max float64) {
	if min > max {
		min, max = max, min
	}
	h.min, h.max = min, max
}

func (h *Hinge) Spring() (host.Spring, bool) { return h.spring, h.springOn }

func (h *Hinge) SetSpring(enabled bool, s host.Spring) {
	h.springOn = enabled
	h.spring = s
}

func (h *Hinge) Constraints() host.Constraints     { return h.constraints }
func (h *Hinge) SetConstraints(c host.Constraints) { h.constraints = c }
func (h *Hinge) Drag() float64                     { return h.drag }
func (h *Hinge) SetDrag(d float64)                 { h.drag = math.Max(0, d) }

func (h *Hinge) frozen() bool {
	return h.constraints.Has(rotationFlag(h.axis))
}

func (h *Hinge) clampToLimits() {
	if h.state[0] < h.min {
		h.state[0] = h.min
		h.state[1] = math.Max(h.state[1], 0)
	} else if h.state[0] > h.max {
		h.state[0] = h.max
		h.state[1] = math.Min(h.state[1], 0)
	}
}

func (h *Hinge) writeTransform() {
	if h.transform == nil {
		return
	}
	h.transform.SetLocalEuler(h.base.With(h.axis, h.base.Component(h.axis)+h.state[0]))
}

func rotationFlag(axis dynamo.Axis) host.Constraints {
	switch axis {
	case dynamo.AxisY:
		return host.FreezeRotationY
	case dynamo.AxisZ:
		return host.FreezeRotationZ
	default:
		return host.FreezeRotationX
	}
}
