package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/scene"
)

type Option func(*Experiment)

func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDriver feeds input into every frame ahead of the physics step.
func WithDriver(d scene.Driver) Option {
	return func(e *Experiment) { e.drivers = append(e.drivers, d) }
}

func WithObserver(o scene.Observer) Option {
	return func(e *Experiment) { e.observers = append(e.observers, o) }
}

// WithDefaultMetrics attaches the registry's metrics for every control.
func WithDefaultMetrics() Option {
	return func(e *Experiment) { e.defaultMetrics = true }
}

// Experiment is a scene assembled from a Config: one in-memory node per
// control, placed at the configured pose.
type Experiment struct {
	cfg   *config.Config
	scene *scene.Scene
	nodes map[string]*host.Node
	log   *zap.Logger

	drivers        []scene.Driver
	observers      []scene.Observer
	defaultMetrics bool
}

func New(cfg *config.Config, reg *Registry, opts ...Option) (*Experiment, error) {
	e := &Experiment{
		cfg:   cfg,
		nodes: make(map[string]*host.Node, len(cfg.Controls)),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	e.scene = scene.New(scene.WithLogger(e.log.With(zap.String("scene", cfg.Name))))
	for _, cc := range cfg.Controls {
		node := host.NewNode(cc.Name)
		node.SetLocalPosition(cc.Position)
		node.SetLocalEuler(cc.Rotation)

		built, err := reg.Build(cc, Env{Transform: node, Integrator: integ, Logger: e.log})
		if err != nil {
			return nil, err
		}
		if err := e.scene.Add(built.Control); err != nil {
			return nil, err
		}
		for _, b := range built.Bodies {
			e.scene.AddBody(b)
		}
		if e.defaultMetrics {
			for _, m := range reg.DefaultMetrics(cc.Name) {
				e.scene.AddMetric(m)
			}
		}
		e.nodes[cc.Name] = node
	}
	for _, d := range e.drivers {
		e.scene.AddDriver(d)
	}
	for _, o := range e.observers {
		e.scene.AddObserver(o)
	}
	return e, nil
}

func (e *Experiment) Run(ctx context.Context) (*scene.Result, error) {
	if e.scene == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	e.log.Info("running scene",
		zap.String("scene", e.cfg.Name),
		zap.Int("controls", len(e.cfg.Controls)),
		zap.Float64("duration", e.cfg.Duration))
	return e.scene.Run(ctx, e.SceneConfig())
}

func (e *Experiment) SceneConfig() scene.Config {
	return scene.Config{Dt: e.cfg.Dt, Duration: e.cfg.Duration}
}

// Scene returns the underlying scene for adding observers.
func (e *Experiment) Scene() *scene.Scene    { return e.scene }
func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Node(name string) (*host.Node, bool) {
	n, ok := e.nodes[name]
	return n, ok
}
