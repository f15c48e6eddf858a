package physics

import (
	"math"
	"testing"

	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/integrators"
)

const frame = 1.0 / 90

func newTestHinge() (*Hinge, *host.Node) {
	node := host.NewNode("door")
	return NewHinge(node, dynamo.AxisY, integrators.NewRK4()), node
}

func TestHingeSpringReturnsToTarget(t *testing.T) {
	h, node := newTestHinge()
	h.SetLimits(-90, 90)
	h.SetAngle(30)
	h.SetSpring(true, host.Spring{Target: 0, Stiffness: 100, Damper: 10})

	for i := 0; i < 360; i++ {
		h.Step(frame)
	}

	if math.Abs(h.Angle()) > 0.5 {
		t.Errorf("expected spring to settle near 0, got %f", h.Angle())
	}
	if got := dynamo.WrapAngle(node.LocalEuler().Y); math.Abs(got-h.Angle()) > 1e-9 {
		t.Errorf("transform out of sync: euler %f, angle %f", got, h.Angle())
	}
}

func TestHingeLimits(t *testing.T) {
	h, _ := newTestHinge()
	h.SetLimits(-10, 10)

	for i := 0; i < 90; i++ {
		h.ApplyTorque(500)
		h.Step(frame)
	}

	if h.Angle() > 10+1e-9 {
		t.Errorf("expected angle clamped to 10, got %f", h.Angle())
	}
}

func TestHingeFrozenRotation(t *testing.T) {
	h, _ := newTestHinge()
	h.SetAngle(20)
	h.SetConstraints(host.FreezeRotation)

	h.ApplyTorque(1000)
	h.Step(frame)
	h.SetAngle(50)

	if h.Angle() != 20 {
		t.Errorf("expected frozen hinge to stay at 20, got %f", h.Angle())
	}
	if h.AngularVelocity() != 0 {
		t.Errorf("expected zero velocity, got %f", h.AngularVelocity())
	}
}

func TestHingeTorqueIsConsumed(t *testing.T) {
	h, _ := newTestHinge()
	h.ApplyTorque(100)
	h.Step(frame)
	v := h.AngularVelocity()
	h.Step(frame)

	if v <= 0 {
		t.Fatalf("expected positive velocity after torque, got %f", v)
	}
	if math.Abs(h.AngularVelocity()-v) > 1e-9 {
		t.Errorf("expected velocity to hold without new torque, got %f then %f", v, h.AngularVelocity())
	}
}

func TestHingeDragSlows(t *testing.T) {
	h, _ := newTestHinge()
	h.SetDrag(5)
	h.ApplyTorque(200)
	h.Step(frame)
	v := h.AngularVelocity()
	for i := 0; i < 30; i++ {
		h.Step(frame)
	}
	if h.AngularVelocity() >= v {
		t.Errorf("expected drag to reduce velocity, got %f then %f", v, h.AngularVelocity())
	}
}

func TestHingeRebase(t *testing.T) {
	h, node := newTestHinge()
	h.SetAngle(30)
	h.ApplyTorque(50)
	h.Rebase()

	if h.Angle() != 0 || h.AngularVelocity() != 0 {
		t.Errorf("expected rebased hinge at rest at 0, got %f (%f)", h.Angle(), h.AngularVelocity())
	}
	h.SetAngle(10)
	if got := node.LocalEuler().Y; math.Abs(got-40) > 1e-9 {
		t.Errorf("expected euler 40 after rebase, got %f", got)
	}
}
