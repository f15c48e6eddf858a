package controllable

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/limits"
)

type Option func(*Base)

func WithLogger(l *zap.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.log = l
		}
	}
}

func WithEqualityFidelity(f float64) Option {
	return func(b *Base) {
		if f > 0 {
			b.fidelity = f
		}
	}
}

func WithID(id uuid.UUID) Option {
	return func(b *Base) { b.id = id }
}

// Base is embedded by every control.
type Base struct {
	id        uuid.UUID
	name      string
	axis      dynamo.Axis
	transform host.Transform

	origin         dynamo.Vec3
	originRotation dynamo.Vec3

	machine    limits.Machine
	moving     bool
	touched    bool
	interactor *host.Contact
	active     bool

	events   *Dispatcher
	owned    []*Subscription
	log      *zap.Logger
	fidelity float64
}

func NewBase(name string, axis dynamo.Axis, transform host.Transform, opts ...Option) *Base {
	b := &Base{
		id:        uuid.New(),
		name:      name,
		axis:      axis,
		transform: transform,
		events:    NewDispatcher(),
		log:       zap.NewNop(),
		fidelity:  dynamo.DefaultEqualityFidelity,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With(zap.String("control", name), zap.String("id", b.id.String()))
	return b
}

func (b *Base) ID() uuid.UUID               { return b.id }
func (b *Base) Name() string                { return b.name }
func (b *Base) Axis() dynamo.Axis           { return b.axis }
func (b *Base) Transform() host.Transform   { return b.transform }
func (b *Base) Events() *Dispatcher         { return b.events }
func (b *Base) Logger() *zap.Logger         { return b.log }
func (b *Base) EqualityFidelity() float64   { return b.fidelity }
func (b *Base) Active() bool                { return b.active }
func (b *Base) Origin() dynamo.Vec3         { return b.origin }
func (b *Base) OriginRotation() dynamo.Vec3 { return b.originRotation }

func (b *Base) AtMinLimit() bool { return b.machine.AtMin() }
func (b *Base) AtMaxLimit() bool { return b.machine.AtMax() }

func (b *Base) State() State {
	return State{
		AtMinLimit: b.machine.AtMin(),
		AtMaxLimit: b.machine.AtMax(),
		IsMoving:   b.moving,
		IsTouched:  b.touched,
	}
}

func (b *Base) Moving() bool       { return b.moving }
func (b *Base) SetMoving(m bool)   { b.moving = m }
func (b *Base) Touching() bool     { return b.touched }
func (b *Base) SetTouching(t bool) { b.touched = t }

// AxisDirection is the unit vector of the operating axis.
func (b *Base) AxisDirection() dynamo.Vec3 { return b.axis.Direction() }

// Activate captures the reference pose and resets the mutable state.
func (b *Base) Activate() {
	b.origin = b.LocalPosition()
	b.originRotation = b.LocalEuler()
	b.machine.Reset()
	b.moving = false
	b.touched = false
	b.interactor = nil
	b.active = true
	b.log.Debug("controllable activated",
		zap.Stringer("axis", b.axis),
		zap.Stringer("origin", b.origin))
}

// Deactivate cancels every subscription registered through Own.
func (b *Base) Deactivate() {
	for _, s := range b.owned {
		s.Cancel()
	}
	b.owned = nil
	b.active = false
	b.log.Debug("controllable deactivated")
}

// Own ties a subscription's lifetime to the current activation.
func (b *Base) Own(s *Subscription) *Subscription {
	b.owned = append(b.owned, s)
	return s
}

func (b *Base) LocalPosition() dynamo.Vec3 {
	if b.transform == nil {
		return dynamo.Vec3{}
	}
	return b.transform.LocalPosition()
}

func (b *Base) LocalEuler() dynamo.Vec3 {
	if b.transform == nil {
		return dynamo.Vec3{}
	}
	return b.transform.LocalEuler()
}

// Touch records c as the interacting contact.
func (b *Base) Touch(c host.Contact) {
	contact := c
	b.interactor = &contact
}

func (b *Base) ResetInteractor() {
	if b.interactor != nil {
		b.log.Debug("interactor released", zap.String("interactor", b.interactor.ID))
	}
	b.interactor = nil
}

func (b *Base) Interactor() (host.Contact, bool) {
	if b.interactor == nil {
		return host.Contact{}, false
	}
	return *b.interactor, true
}

// Publish evaluates the limit machine for zone and then emits ValueChanged
// followed by any limit transitions.
func (b *Base) Publish(value, normalized float64, zone limits.Zone) {
	b.Report(value, normalized, zone, true)
}

// Report is Publish with ValueChanged made optional, for controls that
// debounce value changes themselves.
func (b *Base) Report(value, normalized float64, zone limits.Zone, valueChanged bool) {
	transitions := b.machine.Evaluate(zone)

	e := Event{
		Sender:          b.id,
		Name:            b.name,
		Value:           value,
		NormalizedValue: normalized,
	}
	if b.interactor != nil {
		e.Interactor = b.interactor.ID
	}

	if valueChanged {
		e.Kind = ValueChanged
		b.events.Emit(e)
	}
	for _, tr := range transitions {
		e.Kind = transitionKind(tr)
		b.log.Debug("limit transition",
			zap.Stringer("event", e.Kind),
			zap.Float64("value", value),
			zap.Float64("normalized", normalized))
		b.events.Emit(e)
	}
}

func transitionKind(t limits.Transition) EventKind {
	switch t {
	case limits.MinReached:
		return MinLimitReached
	case limits.MinExited:
		return MinLimitExited
	case limits.MaxReached:
		return MaxLimitReached
	default:
		return MaxLimitExited
	}
}
