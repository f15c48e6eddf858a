package actuator

import "github.com/san-kum/controlsim/internal/host"

const (
	SpringStiffness = 100.0
	SpringDamper    = 10.0
)

// Physics mirrors a door's joint configuration onto host primitives. Either
// collaborator may be nil, in which case the matching operations do nothing.
type Physics struct {
	joint host.Joint
	body  host.Body

	saved  host.Constraints
	locked bool
}

func NewPhysics(joint host.Joint, body host.Body) *Physics {
	return &Physics{joint: joint, body: body}
}

func (p *Physics) Joint() host.Joint { return p.joint }
func (p *Physics) Body() host.Body   { return p.body }

// Reset re-bases the joint on the current pose when it can, records the
// body's current constraints as the free-motion set and forgets any previous
// lock.
func (p *Physics) Reset() {
	p.locked = false
	if r, ok := p.joint.(host.Rebaser); ok {
		r.Rebase()
	}
	if p.body != nil {
		p.saved = p.body.Constraints()
	}
}

func (p *Physics) SetLimits(min, max float64) {
	if p.joint != nil {
		p.joint.SetLimits(min, max)
	}
}

func (p *Physics) SetSpring(enabled bool, target float64) {
	if p.joint == nil {
		return
	}
	p.joint.SetSpring(enabled, host.Spring{
		Target:    target,
		Stiffness: SpringStiffness,
		Damper:    SpringDamper,
	})
}

func (p *Physics) SpringEngaged() bool {
	if p.joint == nil {
		return false
	}
	_, on := p.joint.Spring()
	return on
}

// SyncLock freezes rotation when locked becomes true and restores the saved
// constraints when it becomes false. It reports whether anything changed.
func (p *Physics) SyncLock(locked bool) bool {
	if p.body == nil {
		return false
	}
	switch {
	case locked && !p.locked:
		p.saved = p.body.Constraints()
		p.body.SetConstraints(host.FreezeRotation)
		p.locked = true
		return true
	case !locked && p.locked:
		p.body.SetConstraints(p.saved)
		p.locked = false
		return true
	}
	return false
}

func (p *Physics) Locked() bool { return p.locked }

func (p *Physics) SetDrag(d float64) {
	if p.body != nil {
		p.body.SetDrag(d)
	}
}
