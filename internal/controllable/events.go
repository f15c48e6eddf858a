package controllable

import (
	"fmt"

	"github.com/google/uuid"
)

type EventKind int

const (
	ValueChanged EventKind = iota
	MaxLimitReached
	MaxLimitExited
	MinLimitReached
	MinLimitExited
)

var eventKindNames = map[EventKind]string{
	ValueChanged:    "value_changed",
	MaxLimitReached: "max_limit_reached",
	MaxLimitExited:  "max_limit_exited",
	MinLimitReached: "min_limit_reached",
	MinLimitExited:  "min_limit_exited",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// EventKinds lists every kind in emission-table order.
func EventKinds() []EventKind {
	return []EventKind{ValueChanged, MaxLimitReached, MaxLimitExited, MinLimitReached, MinLimitExited}
}

// Event is the payload delivered to listeners.
type Event struct {
	Kind            EventKind
	Sender          uuid.UUID
	Name            string
	Value           float64
	NormalizedValue float64
	Interactor      string
}

type Handler func(Event)

// Subscription is a registered handler. Cancel removes it; calling Cancel more
// than once is harmless.
type Subscription struct {
	id      string
	kind    EventKind
	all     bool
	handler Handler
	owner   *Dispatcher
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) Active() bool {
	return s != nil && s.owner != nil
}

func (s *Subscription) Cancel() {
	if s == nil || s.owner == nil {
		return
	}
	s.owner.remove(s)
	s.owner = nil
}

// Dispatcher delivers events synchronously, in subscription order. It is not
// safe for concurrent use; a controllable and its listeners run on one tick.
type Dispatcher struct {
	subs []*Subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(kind EventKind, h Handler) *Subscription {
	return d.add(&Subscription{id: uuid.NewString(), kind: kind, handler: h})
}

// SubscribeAll registers h for every event kind.
func (d *Dispatcher) SubscribeAll(h Handler) *Subscription {
	return d.add(&Subscription{id: uuid.NewString(), all: true, handler: h})
}

func (d *Dispatcher) Len() int { return len(d.subs) }

func (d *Dispatcher) Emit(e Event) {
	// handlers may cancel subscriptions while we iterate
	snapshot := make([]*Subscription, len(d.subs))
	copy(snapshot, d.subs)
	for _, s := range snapshot {
		if s.owner != d {
			continue
		}
		if s.all || s.kind == e.Kind {
			s.handler(e)
		}
	}
}

func (d *Dispatcher) add(s *Subscription) *Subscription {
	s.owner = d
	d.subs = append(d.subs, s)
	return s
}

func (d *Dispatcher) remove(target *Subscription) {
	for i, s := range d.subs {
		if s == target {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}
