package limits

// BandZone classifies a normalized value v against a hysteresis band of width
// t at each end. Both limits are inclusive; leaving a limit requires the value
// to be strictly inside (t, 1-t). When the bands overlap (t >= 0.5) the
// maximum wins.
func BandZone(v, t float64) Zone {
	switch {
	case v >= 1-t:
		return ZoneMax
	case v <= t:
		return ZoneMin
	case v > t && v < 1-t:
		return ZoneInRange
	}
	return ZoneNone
}

// Resting reports whether angle lies within threshold of rest, inclusive.
func Resting(angle, rest, threshold float64) bool {
	return angle <= rest+threshold && angle >= rest-threshold
}

// DoorZone classifies a door angle. A resting door is at its minimum limit;
// a door swung to within threshold of either extreme, and not resting, is at
// its maximum limit.
func DoorZone(angle, minAngle, maxAngle, threshold float64, resting bool) Zone {
	atExtreme := angle >= maxAngle-threshold || angle <= minAngle+threshold
	switch {
	case atExtreme && !resting:
		return ZoneMax
	case resting:
		return ZoneMin
	default:
		return ZoneInRange
	}
}
