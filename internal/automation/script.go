package automation

import (
	"fmt"
	"sort"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/actuator"
	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/scene"
)

const (
	DefaultContact = "hand"

	// actions due within this of a frame's end time run in that frame
	timeSlack = 1e-9
)

var verbs = map[string]bool{
	"touch":               true,
	"untouch":             true,
	"grab":                true,
	"ungrab":              true,
	"drag":                true,
	"torque":              true,
	"set_resting":         true,
	"set_resting_step":    true,
	"lock":                true,
	"unlock":              true,
	"set_position_target": true,
	"set_stay_pressed":    true,
}

// Script plays timed actions into a scene. It is a scene.Driver and rewinds
// itself when the scene clock restarts.
type Script struct {
	actions []config.Action
	pending *queue.Queue
	last    float64
	log     *zap.Logger
}

func NewScript(actions []config.Action, log *zap.Logger) (*Script, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sorted := append([]config.Action(nil), actions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	for i, a := range sorted {
		if !verbs[a.Do] {
			return nil, fmt.Errorf("action %d at %.3fs: %w: %q", i, a.At, dynamo.ErrUnknownAction, a.Do)
		}
	}

	s := &Script{actions: sorted, log: log}
	s.Reset()
	return s, nil
}

// Reset requeues every action.
func (s *Script) Reset() {
	s.pending = queue.New()
	for _, a := range s.actions {
		s.pending.Add(a)
	}
	s.last = 0
}

func (s *Script) Pending() int { return s.pending.Length() }

func (s *Script) Drive(sc *scene.Scene, t float64) error {
	if t <= s.last {
		s.Reset()
	}
	s.last = t

	for s.pending.Length() > 0 {
		a := s.pending.Peek().(config.Action)
		if a.At > t+timeSlack {
			break
		}
		s.pending.Remove()
		if err := Apply(sc, a); err != nil {
			return err
		}
		s.log.Debug("action",
			zap.Float64("t", t),
			zap.String("control", a.Control),
			zap.String("do", a.Do),
			zap.Float64("value", a.Value))
	}
	return nil
}

func contactOf(a config.Action) host.Contact {
	id := a.Contact
	if id == "" {
		id = DefaultContact
	}
	kind := host.KindController
	if a.Kind != "" {
		kind = host.ParseContactKind(a.Kind)
	}
	return host.Contact{ID: id, Kind: kind}
}

// Apply performs a single action against the named control.
func Apply(sc *scene.Scene, a config.Action) error {
	c, err := sc.Control(a.Control)
	if err != nil {
		return err
	}
	contact := contactOf(a)

	ok := false
	switch a.Do {
	case "touch", "untouch":
		var t controllable.Toucher
		if t, ok = c.(controllable.Toucher); ok {
			if a.Do == "touch" {
				t.Touched(contact)
			} else {
				t.Untouched(contact)
			}
		}
	case "grab", "ungrab":
		var g controllable.Grabber
		if g, ok = c.(controllable.Grabber); ok {
			if a.Do == "grab" {
				g.Grabbed(host.GrabContext{Interactor: contact})
			} else {
				g.Ungrabbed(host.GrabContext{Interactor: contact})
			}
		}
	case "drag":
		var d controllable.Dragger
		if d, ok = c.(controllable.Dragger); ok {
			d.DragTo(a.Value)
		}
	case "torque":
		ok = applyTorque(c, a.Value)
	case "set_resting":
		switch ctl := c.(type) {
		case *controls.Slider:
			ctl.SetRestingPosition(a.Value, a.Speed, a.Force)
			ok = true
		case *controls.Door:
			ctl.SetRestingAngle(a.Value, a.Force)
			ok = true
		case *controls.PhysicsDoor:
			ctl.SetRestingAngle(a.Value)
			ok = true
		}
	case "set_resting_step":
		var sl *controls.Slider
		if sl, ok = c.(*controls.Slider); ok {
			sl.SetRestingPositionWithStepValue(a.Value, a.Speed, a.Force)
		}
	case "lock", "unlock":
		var l interface{ SetLocked(bool) }
		if l, ok = c.(interface{ SetLocked(bool) }); ok {
			l.SetLocked(a.Do == "lock")
		}
	case "set_position_target":
		var b *controls.Button
		if b, ok = c.(*controls.Button); ok {
			b.SetPositionTarget(a.Value)
		}
	case "set_stay_pressed":
		var b *controls.Button
		if b, ok = c.(*controls.Button); ok {
			b.SetStayPressed(a.Value != 0)
		}
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownAction, a.Do)
	}

	if !ok {
		return fmt.Errorf("%w: %s controls do not support %q", dynamo.ErrUnknownAction, c.Kind(), a.Do)
	}
	return nil
}

func applyTorque(c controllable.Controllable, torque float64) bool {
	p, ok := c.(interface{ Actuator() *actuator.Physics })
	if !ok {
		return false
	}
	t, ok := p.Actuator().Joint().(host.Torquer)
	if !ok {
		return false
	}
	t.ApplyTorque(torque)
	return true
}
