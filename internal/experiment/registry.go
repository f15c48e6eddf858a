package experiment

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/integrators"
	"github.com/san-kum/controlsim/internal/metrics"
	"github.com/san-kum/controlsim/internal/physics"
	"github.com/san-kum/controlsim/internal/scene"
)

// Env is what a factory gets to build a control with.
type Env struct {
	Transform  host.Transform
	Integrator dynamo.Integrator
	Logger     *zap.Logger
}

// Built is a constructed control plus any host bodies it needs stepped.
type Built struct {
	Control controllable.Controllable
	Bodies  []scene.Stepper
}

type Factory func(cc config.ControlConfig, env Env) (Built, error)

type Registry struct {
	controls map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{
		controls: make(map[string]Factory),
	}

	r.controls[controls.KindButton] = func(cc config.ControlConfig, env Env) (Built, error) {
		return Built{Control: controls.NewButton(cc.Name, cc.Axis, env.Transform, *cc.Button, options(env)...)}, nil
	}
	r.controls[controls.KindSlider] = func(cc config.ControlConfig, env Env) (Built, error) {
		return Built{Control: controls.NewSlider(cc.Name, cc.Axis, env.Transform, *cc.Slider, options(env)...)}, nil
	}
	r.controls[controls.KindDoor] = func(cc config.ControlConfig, env Env) (Built, error) {
		return Built{Control: controls.NewDoor(cc.Name, cc.Axis, env.Transform, *cc.Door, options(env)...)}, nil
	}
	r.controls[controls.KindPhysicsDoor] = func(cc config.ControlConfig, env Env) (Built, error) {
		hinge := physics.NewHinge(env.Transform, cc.Axis, env.Integrator)
		hinge.Inertia = cc.Inertia
		hinge.SetDrag(cc.Drag)
		door := controls.NewPhysicsDoor(cc.Name, cc.Axis, env.Transform, hinge, hinge, *cc.PhysicsDoor, options(env)...)
		return Built{Control: door, Bodies: []scene.Stepper{hinge}}, nil
	}

	return r
}

func options(env Env) []controllable.Option {
	return []controllable.Option{controllable.WithLogger(env.Logger)}
}

// Register adds or replaces the factory for a control type.
func (r *Registry) Register(kind string, f Factory) {
	r.controls[kind] = f
}

func (r *Registry) Build(cc config.ControlConfig, env Env) (Built, error) {
	fn, ok := r.controls[cc.Type]
	if !ok {
		return Built{}, fmt.Errorf("%w: type %q", dynamo.ErrUnknownControl, cc.Type)
	}
	if config.KnownType(cc.Type) {
		if err := cc.Validate(); err != nil {
			return Built{}, fmt.Errorf("control %s: %w", cc.Name, err)
		}
	}
	return fn(cc, env)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	return integrators.ByName(name)
}

func (r *Registry) ListControls() []string {
	names := make([]string, 0, len(r.controls))
	for name := range r.controls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(control string) []scene.Metric {
	return []scene.Metric{
		metrics.NewTravel(control),
		metrics.NewTimeAtLimit(control),
		metrics.NewEventCount(control, controllable.MaxLimitReached.String()),
		metrics.NewEventCount(control, controllable.MinLimitReached.String()),
	}
}
