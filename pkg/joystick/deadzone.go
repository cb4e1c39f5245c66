package joystick

import "math"

// Normalized converts a raw axis value to the range [-1, 1].
func Normalized(v int16) float64 {
	return float64(v) / AxisMax
}

// Deadzone filters out stick noise around the centre: values closer to
// zero than threshold become exactly 0, anything else passes through
// unchanged.
func Deadzone(v, threshold float64) float64 {
	if math.Abs(v) < threshold {
		return 0
	}
	return v
}
