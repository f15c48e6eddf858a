package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
)

const (
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 3.0
	DefaultIntegrator = "rk4"
	DefaultLogLevel   = "info"
	DefaultInertia    = 1.0
)

// Config describes one scene: its clock, its controls and a script of timed
// interactions.
type Config struct {
	Name       string          `yaml:"name"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	Integrator string          `yaml:"integrator"`
	LogLevel   string          `yaml:"log_level"`
	Controls   []ControlConfig `yaml:"controls"`
	Script     []Action        `yaml:"script,omitempty"`
}

// ControlConfig places one control. Only the parameter block matching Type
// is used; missing blocks take that type's defaults.
type ControlConfig struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Axis     dynamo.Axis `yaml:"axis"`
	Position dynamo.Vec3 `yaml:"position,flow"`
	Rotation dynamo.Vec3 `yaml:"rotation,flow"`

	Button      *controls.ButtonConfig      `yaml:"button,omitempty"`
	Slider      *controls.SliderConfig      `yaml:"slider,omitempty"`
	Door        *controls.DoorConfig        `yaml:"door,omitempty"`
	PhysicsDoor *controls.PhysicsDoorConfig `yaml:"physics_door,omitempty"`

	// hinge parameters for physics doors
	Inertia float64 `yaml:"inertia,omitempty"`
	Drag    float64 `yaml:"drag,omitempty"`
}

// Action is one scripted interaction, applied at the first frame whose end
// time reaches At.
type Action struct {
	At      float64 `yaml:"at"`
	Control string  `yaml:"control"`
	Do      string  `yaml:"do"`
	Value   float64 `yaml:"value,omitempty"`
	Speed   float64 `yaml:"speed,omitempty"`
	Force   bool    `yaml:"force,omitempty"`
	Contact string  `yaml:"contact,omitempty"`
	Kind    string  `yaml:"kind,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Integrator: DefaultIntegrator,
		LogLevel:   DefaultLogLevel,
		Controls:   []ControlConfig{NewControl("button", controls.KindButton, dynamo.AxisY)},
		Script:     []Action{{At: 0.1, Control: "button", Do: "touch"}},
	}
}

// KnownType reports whether kind is one of the built-in control types.
func KnownType(kind string) bool {
	switch kind {
	case controls.KindButton, controls.KindSlider, controls.KindDoor, controls.KindPhysicsDoor:
		return true
	}
	return false
}

// NewControl returns a control of the given type carrying that type's
// default parameters.
func NewControl(name, kind string, axis dynamo.Axis) ControlConfig {
	c := ControlConfig{Name: name, Type: kind, Axis: axis}
	c.fillDefaults()
	return c
}

func (c *ControlConfig) fillDefaults() {
	switch c.Type {
	case controls.KindButton:
		if c.Button == nil {
			b := controls.DefaultButtonConfig()
			c.Button = &b
		}
	case controls.KindSlider:
		if c.Slider == nil {
			s := controls.DefaultSliderConfig()
			c.Slider = &s
		}
	case controls.KindDoor:
		if c.Door == nil {
			d := controls.DefaultDoorConfig()
			c.Door = &d
		}
	case controls.KindPhysicsDoor:
		if c.PhysicsDoor == nil {
			d := controls.DefaultPhysicsDoorConfig()
			c.PhysicsDoor = &d
		}
		if c.Inertia == 0 {
			c.Inertia = DefaultInertia
		}
	}
}

// UnmarshalYAML seeds the type's defaults before decoding so that a partial
// parameter block only overrides what it names.
func (c *ControlConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain ControlConfig
	var head struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	p := plain(NewControl("", head.Type, dynamo.AxisX))
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = ControlConfig(p)
	return nil
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return dynamo.InvalidField("dt", "must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return dynamo.InvalidField("duration", "must be positive, got %f", c.Duration)
	}
	if len(c.Controls) == 0 {
		return dynamo.InvalidField("controls", "at least one control is required")
	}

	seen := make(map[string]bool, len(c.Controls))
	for i := range c.Controls {
		cc := &c.Controls[i]
		if cc.Name == "" {
			return dynamo.InvalidField(fmt.Sprintf("controls[%d].name", i), "empty")
		}
		if seen[cc.Name] {
			return dynamo.InvalidField(fmt.Sprintf("controls[%d].name", i), "duplicate %q", cc.Name)
		}
		seen[cc.Name] = true
		if err := cc.Validate(); err != nil {
			return fmt.Errorf("control %s: %w", cc.Name, err)
		}
	}

	for i, a := range c.Script {
		if !seen[a.Control] {
			return fmt.Errorf("script[%d]: %w: %s", i, dynamo.ErrUnknownControl, a.Control)
		}
		if a.At < 0 {
			return dynamo.InvalidField(fmt.Sprintf("script[%d].at", i), "negative time %v", a.At)
		}
	}
	return nil
}

func (c *ControlConfig) Validate() error {
	if !c.Axis.Valid() {
		return fmt.Errorf("%w: %d", dynamo.ErrUnknownAxis, int(c.Axis))
	}
	c.fillDefaults()
	switch c.Type {
	case controls.KindButton:
		return c.Button.Validate()
	case controls.KindSlider:
		return c.Slider.Validate()
	case controls.KindDoor:
		return c.Door.Validate()
	case controls.KindPhysicsDoor:
		if c.Inertia <= 0 {
			return dynamo.InvalidField("inertia", "must be positive, got %f", c.Inertia)
		}
		return c.PhysicsDoor.Validate()
	}
	return fmt.Errorf("%w: type %q", dynamo.ErrUnknownControl, c.Type)
}

// Control returns the named control's configuration.
func (c *Config) Control(name string) (*ControlConfig, error) {
	for i := range c.Controls {
		if c.Controls[i].Name == name {
			return &c.Controls[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownControl, name)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Controls = make([]ControlConfig, len(c.Controls))
	for i, cc := range c.Controls {
		out.Controls[i] = cc.clone()
	}
	out.Script = append([]Action(nil), c.Script...)
	return &out
}

func (c ControlConfig) clone() ControlConfig {
	if c.Button != nil {
		b := *c.Button
		c.Button = &b
	}
	if c.Slider != nil {
		s := *c.Slider
		c.Slider = &s
	}
	if c.Door != nil {
		d := *c.Door
		c.Door = &d
	}
	if c.PhysicsDoor != nil {
		d := *c.PhysicsDoor
		c.PhysicsDoor = &d
	}
	return c
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML scene over DefaultConfig's clock settings.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Controls = nil
	cfg.Script = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
