package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// Axis selects the local coordinate a controllable operates along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Direction returns the unit vector for the axis in local space.
func (a Axis) Direction() Vec3 {
	switch a {
	case AxisY:
		return Vec3{Y: 1}
	case AxisZ:
		return Vec3{Z: 1}
	default:
		return Vec3{X: 1}
	}
}

func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "xaxis", "":
		return AxisX, nil
	case "y", "yaxis":
		return AxisY, nil
	case "z", "zaxis":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

func (a Axis) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *Axis) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAxis(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Component returns the coordinate selected by a.
func (v Vec3) Component(a Axis) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	default:
		return v.X
	}
}

// With returns a copy of v with the coordinate selected by a replaced.
func (v Vec3) With(a Axis, value float64) Vec3 {
	switch a {
	case AxisY:
		v.Y = value
	case AxisZ:
		v.Z = value
	default:
		v.X = value
	}
	return v
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// ComponentAlong returns the scalar component of v along the operating axis.
func ComponentAlong(v Vec3, a Axis) float64 {
	return v.Component(a)
}

// Normalize maps value from [start, end] onto [0, 1], clamped. The range may be
// reversed. A zero-width range yields 0. The result is rounded to
// NormalizePlaces so that subtracting poses lands exactly on the ends.
func Normalize(value, start, end float64) float64 {
	span := end - start
	if span == 0 || math.IsNaN(span) {
		return 0
	}
	return RoundTo(Clamp01((value-start)/span), NormalizePlaces)
}

const NormalizePlaces = 12

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b; t is clamped to [0, 1].
func Lerp(a, b Vec3, t float64) Vec3 {
	t = Clamp01(t)
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

func LerpScalar(a, b, t float64) float64 {
	t = Clamp01(t)
	return a + (b-a)*t
}

// Near reports whether a and b are closer than eps.
func Near(a, b Vec3, eps float64) bool {
	return a.Sub(b).Norm() < eps
}

// WrapAngle maps an angle in degrees into (-180, 180].
func WrapAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// Euler360 maps an angle in degrees into [0, 360), the range a host reports
// local euler angles in.
func Euler360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
