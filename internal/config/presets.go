package config

import (
	"sort"

	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
)

var Presets = map[string]*Config{
	"button-press": {
		Name: "button-press", Dt: DefaultDt, Duration: 2, Integrator: DefaultIntegrator, LogLevel: DefaultLogLevel,
		Controls: []ControlConfig{button("button", false)},
		Script: []Action{
			{At: 0.1, Control: "button", Do: "touch"},
			{At: 0.2, Control: "button", Do: "untouch"},
		},
	},
	"button-hold": {
		Name: "button-hold", Dt: DefaultDt, Duration: 3, Integrator: DefaultIntegrator, LogLevel: DefaultLogLevel,
		Controls: []ControlConfig{button("button", true)},
		Script: []Action{
			{At: 0.1, Control: "button", Do: "touch"},
			{At: 0.2, Control: "button", Do: "untouch"},
			{At: 1.5, Control: "button", Do: "set_stay_pressed", Value: 0},
		},
	},
	"slider-snap": {
		Name: "slider-snap", Dt: DefaultDt, Duration: 3, Integrator: DefaultIntegrator, LogLevel: DefaultLogLevel,
		Controls: []ControlConfig{slider("slider", true, 0)},
		Script: []Action{
			{At: 0.1, Control: "slider", Do: "grab"},
			{At: 0.2, Control: "slider", Do: "drag", Value: 0.027},
			{At: 0.4, Control: "slider", Do: "drag", Value: 0.064},
			{At: 0.6, Control: "slider", Do: "ungrab"},
		},
	},
	"slider-rest": {
		Name: "slider-rest", Dt: DefaultDt, Duration: 3, Integrator: DefaultIntegrator, LogLevel: DefaultLogLevel,
		Controls: []ControlConfig{slider("slider", false, 0.2)},
		Script: []Action{
			{At: 0.1, Control: "slider", Do: "grab"},
			{At: 0.2, Control: "slider", Do: "drag", Value: 0.015},
			{At: 0.4, Control: "slider", Do: "ungrab"},
			{At: 1.5, Control: "slider", Do: "set_resting", Value: 0.8, Speed: 10, Force: true},
		},
	},
	"door-shut": {
		Name: "door-shut", Dt: DefaultDt, Duration: 3, Integrator: DefaultIntegrator, LogLevel: DefaultLogLevel,
		Controls: []ControlConfig{door("door", false)},
		Script: []Action{
			{At: 0.1, Control: "door", Do: "grab"},
			{At: 0.2, Control: "door", Do: "drag", Value: 5},
			{At: 0.3, Control: "door", Do: "ungrab"},
			{At: 1.0, Control: "door", Do: "grab"},
			{At: 1.1, Control: "door", Do: "drag", Value: 80},
			{At: 1.2, Control: "door", Do: "ungrab"},
		},
	},
	"door-locked": {
		Name: "door-locked", Dt: DefaultDt, Duration: 2, Integrator: DefaultIntegrator, LogLevel: DefaultLogLevel,
		Controls: []ControlConfig{door("door", true)},
		Script: []Action{
			{At: 0.1, Control: "door", Do: "grab"},
			{At: 0.2, Control: "door", Do: "drag", Value: 45},
			{At: 0.5, Control: "door", Do: "unlock"},
			{At: 0.6, Control: "door", Do: "drag", Value: 45},
			{At: 0.8, Control: "door", Do: "ungrab"},
		},
	},
	"physics-door": {
		Name: "physics-door", Dt: DefaultDt, Duration: 5, Integrator: DefaultIntegrator, LogLevel: DefaultLogLevel,
		Controls: []ControlConfig{physicsDoor("door")},
		Script: []Action{
			{At: 0.1, Control: "door", Do: "grab"},
			{At: 0.2, Control: "door", Do: "drag", Value: 20},
			{At: 0.3, Control: "door", Do: "ungrab"},
			{At: 0.4, Control: "door", Do: "untouch"},
			{At: 2.0, Control: "door", Do: "torque", Value: 4000},
			{At: 3.5, Control: "door", Do: "set_resting", Value: 30},
		},
	},
}

func button(name string, stay bool) ControlConfig {
	c := NewControl(name, controls.KindButton, dynamo.AxisY)
	c.Button.StayPressed = stay
	return c
}

func slider(name string, snap bool, forceRest float64) ControlConfig {
	c := NewControl(name, controls.KindSlider, dynamo.AxisX)
	c.Slider.SnapToStep = snap
	c.Slider.ForceRestingPositionThreshold = forceRest
	return c
}

func door(name string, locked bool) ControlConfig {
	c := NewControl(name, controls.KindDoor, dynamo.AxisY)
	c.Door.MinimumAngle = -90
	c.Door.MaximumAngle = 90
	c.Door.ForceShutThresholdAngle = 10
	c.Door.IsLocked = locked
	return c
}

func physicsDoor(name string) ControlConfig {
	c := NewControl(name, controls.KindPhysicsDoor, dynamo.AxisY)
	c.PhysicsDoor.MinimumAngle = -90
	c.PhysicsDoor.MaximumAngle = 90
	c.PhysicsDoor.ForceShutThresholdAngle = 30
	c.PhysicsDoor.UseFrictionOverrides = true
	c.PhysicsDoor.GrabbedFriction = 2
	c.PhysicsDoor.ReleasedFriction = 0.5
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
