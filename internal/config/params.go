package config

import (

	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
)

// SetParam sets one numeric parameter by its YAML name. Booleans take any
// non-zero value as true.
func (c *ControlConfig) SetParam(name string, v float64) error {
	c.fillDefaults()
	switch name {
	case "inertia":
		c.Inertia = v
		return nil
	case "drag":
		c.Drag = v
		return nil
	}

	var p *float64
	var flag *bool
	switch c.Type {
	case controls.KindButton:
		b := c.Button
		switch name {
		case "press_speed":
			p = &b.PressSpeed
		case "pressed_distance":
			p = &b.PressedDistance
		case "pressed_threshold":
			p = &b.PressedThreshold
		case "position_target":
			p = &b.PositionTarget
		case "return_speed":
			p = &b.ReturnSpeed
		case "stay_pressed":
			flag = &b.StayPressed
		}
	case controls.KindSlider:
		s := c.Slider
		switch name {
		case "maximum_length":
			p = &s.MaximumLength
		case "resting_position":
			p = &s.RestingPosition
		case "force_resting_position_threshold":
			p = &s.ForceRestingPositionThreshold
		case "step_size":
			p = &s.StepSize
		case "snap_force":
			p = &s.SnapForce
		case "snap_to_step":
			flag = &s.SnapToStep
		case "use_step_as_value":
			flag = &s.UseStepAsValue
		}
	case controls.KindDoor:
		d := c.Door
		switch name {
		case "minimum_angle":
			p = &d.MinimumAngle
		case "maximum_angle":
			p = &d.MaximumAngle
		case "min_max_threshold_angle":
			p = &d.MinMaxThresholdAngle
		case "resting_angle":
			p = &d.RestingAngle
		case "force_shut_threshold_angle":
			p = &d.ForceShutThresholdAngle
		case "grabbed_friction":
			p = &d.GrabbedFriction
		case "released_friction":
			p = &d.ReleasedFriction
		case "is_locked":
			flag = &d.IsLocked
		}
	case controls.KindPhysicsDoor:
		d := c.PhysicsDoor
		switch name {
		case "minimum_angle":
			p = &d.MinimumAngle
		case "maximum_angle":
			p = &d.MaximumAngle
		case "min_max_threshold_angle":
			p = &d.MinMaxThresholdAngle
		case "resting_angle":
			p = &d.RestingAngle
		case "force_shut_threshold_angle":
			p = &d.ForceShutThresholdAngle
		case "grabbed_friction":
			p = &d.GrabbedFriction
		case "released_friction":
			p = &d.ReleasedFriction
		case "is_locked":
			flag = &d.IsLocked
		case "use_friction_overrides":
			flag = &d.UseFrictionOverrides
		}
	}

	switch {
	case p != nil:
		*p = v
	case flag != nil:
		*flag = v != 0
	default:
		return dynamo.InvalidField(name, "not a parameter of %s controls", c.Type)
	}
	return nil
}
