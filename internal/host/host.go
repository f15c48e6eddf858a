// Package host defines the narrow contracts a controllable consumes from the
// environment it lives in: transform access, touch and grab notifications, and
// the hinge/rigid-body primitives used by the physics backend.
package host

import "github.com/san-kum/controlsim/internal/dynamo"

// Transform is read/write access to the local pose of the controlled object.
// Euler angles are in degrees, reported in [0, 360).
type Transform interface {
	LocalPosition() dynamo.Vec3
	SetLocalPosition(p dynamo.Vec3)
	LocalEuler() dynamo.Vec3
	SetLocalEuler(e dynamo.Vec3)
	LossyScale() dynamo.Vec3
}

type ContactKind int

const (
	KindObject ContactKind = iota
	KindController
	KindPlayerBody
)

func (k ContactKind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindPlayerBody:
		return "player_body"
	default:
		return "object"
	}
}

func ParseContactKind(s string) ContactKind {
	switch s {
	case "controller":
		return KindController
	case "player_body", "player":
		return KindPlayerBody
	default:
		return KindObject
	}
}

// Contact identifies whatever touched a controllable.
type Contact struct {
	ID   string
	Kind ContactKind
}

// ContactFilter decides whether a contact may actuate a control.
type ContactFilter func(Contact) bool

// ActuatorFilter accepts controllers and plain scene objects and rejects the
// rest of the player rig.
func ActuatorFilter(c Contact) bool {
	return c.Kind != KindPlayerBody
}

func AcceptAll(Contact) bool { return true }

// GrabContext describes a grab or ungrab notification.
type GrabContext struct {
	Interactor Contact
}

type Spring struct {
	Target    float64
	Stiffness float64
	Damper    float64
}

// Joint is a hinge joint measured in degrees about its axis.
type Joint interface {
	Angle() float64
	Limits() (min, max float64)
	SetLimits(min, max float64)
	Spring() (Spring, bool)
	SetSpring(enabled bool, s Spring)
}

type Constraints uint8

const (
	FreezePositionX Constraints = 1 << iota
	FreezePositionY
	FreezePositionZ
	FreezeRotationX
	FreezeRotationY
	FreezeRotationZ

	ConstraintsNone  Constraints = 0
	FreezePosition               = FreezePositionX | FreezePositionY | FreezePositionZ
	FreezeRotation               = FreezeRotationX | FreezeRotationY | FreezeRotationZ
	FreezeAll                    = FreezePosition | FreezeRotation
)

func (c Constraints) Has(flag Constraints) bool { return c&flag == flag }

// Body is the rigid body carrying a joint.
type Body interface {
	Constraints() Constraints
	SetConstraints(c Constraints)
	Drag() float64
	SetDrag(d float64)
}

// Positioner is implemented by joints the host can place directly, the way a
// tracking grab moves a hinge to follow the hand.
type Positioner interface {
	SetAngle(angle float64)
}

// Rebaser is implemented by joints that can take the transform's current pose
// as their zero angle, the way a host re-creates a joint on enable.
type Rebaser interface {
	Rebase()
}

// Torquer is implemented by joints that accept an external torque for the
// next physics step.
type Torquer interface {
	ApplyTorque(torque float64)
}
