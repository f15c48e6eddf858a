package automation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/experiment"
	"github.com/san-kum/controlsim/internal/scene"
)

// ParameterSweep runs one scene per value of a control parameter, spread
// evenly over [Min, Max].
type ParameterSweep struct {
	Base     *config.Config
	Control  string
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Workers  int
}

// SweepResult holds one point of a sweep.
type SweepResult struct {
	ParamValue float64
	Final      scene.Sample
	Events     int
	Metrics    map[string]float64
}

func (p *ParameterSweep) Values() []float64 {
	if p.NumSteps <= 1 {
		return []float64{p.Min}
	}
	step := (p.Max - p.Min) / float64(p.NumSteps-1)
	values := make([]float64, p.NumSteps)
	for i := range values {
		values[i] = p.Min + float64(i)*step
	}
	return values
}

// RunSweep runs the sweep's scenes concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep, reg *experiment.Registry, log *zap.Logger) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("sweep has no base config")
	}
	if _, err := sweep.Base.Control(sweep.Control); err != nil {
		return nil, err
	}

	values := sweep.Values()
	jobs := make([]scene.Job, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		cfg.Name = fmt.Sprintf("%s[%s=%g]", cfg.Name, sweep.Param, v)
		cc, _ := cfg.Control(sweep.Control)
		if err := cc.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		jobs[i] = scene.Job{
			Name:   cfg.Name,
			Config: scene.Config{Dt: cfg.Dt, Duration: cfg.Duration},
			Build: func() (*scene.Scene, error) {
				exp, err := Build(cfg, reg, log, experiment.WithDefaultMetrics())
				if err != nil {
					return nil, err
				}
				return exp.Scene(), nil
			},
		}
	}

	batch, err := scene.RunBatch(ctx, jobs, sweep.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(batch))
	for i, b := range batch {
		trace := b.Result.Traces[sweep.Control]
		var final scene.Sample
		if len(trace) > 0 {
			final = trace[len(trace)-1]
		}
		events := 0
		for _, e := range b.Result.Events {
			if e.Control == sweep.Control {
				events++
			}
		}
		results[i] = SweepResult{
			ParamValue: values[i],
			Final:      final,
			Events:     events,
			Metrics:    b.Result.Metrics,
		}
	}
	return results, nil
}
