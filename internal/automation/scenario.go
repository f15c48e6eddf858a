package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/experiment"
	"github.com/san-kum/controlsim/internal/scene"
)

// Scenario defines a scripted sequence of scenes.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one scene, taken from a preset or a config file, with
// optional overrides and extra actions.
type ScenarioStep struct {
	Preset   string          `yaml:"preset"`
	Config   string          `yaml:"config"`
	Duration float64         `yaml:"duration"`
	Dt       float64         `yaml:"dt"`
	Script   []config.Action `yaml:"script"`
	SaveAs   string          `yaml:"save_as"`
}

type StepResult struct {
	Name   string
	SaveAs string
	Config *config.Config
	Result *scene.Result
}

// LoadScenario loads a scenario from a YAML file. Config paths are resolved
// against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	dir := filepath.Dir(path)
	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		if (step.Preset == "") == (step.Config == "") {
			return nil, dynamo.InvalidField(fmt.Sprintf("steps[%d]", i), "exactly one of preset or config is required")
		}
		if step.Config != "" && !filepath.IsAbs(step.Config) {
			step.Config = filepath.Join(dir, step.Config)
		}
	}
	return &scenario, nil
}

// Resolve builds the scene config a step describes.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	} else {
		var err error
		if cfg, err = config.Load(s.Config); err != nil {
			return nil, err
		}
	}

	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	cfg.Script = append(cfg.Script, s.Script...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Build assembles an experiment with cfg's script attached.
func Build(cfg *config.Config, reg *experiment.Registry, log *zap.Logger, opts ...experiment.Option) (*experiment.Experiment, error) {
	if log == nil {
		log = zap.NewNop()
	}
	script, err := NewScript(cfg.Script, log.With(zap.String("scene", cfg.Name)))
	if err != nil {
		return nil, err
	}
	opts = append([]experiment.Option{experiment.WithLogger(log), experiment.WithDriver(script)}, opts...)
	return experiment.New(cfg, reg, opts...)
}

// RunScenario executes all steps in a scenario, stopping at the first error.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("scene", cfg.Name))

		exp, err := Build(cfg, reg, log)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Name:   cfg.Name,
			SaveAs: step.SaveAs,
			Config: cfg,
			Result: result,
		})
	}

	return results, nil
}
