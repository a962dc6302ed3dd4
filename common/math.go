package common

import "math"

// Gravity is the downward acceleration applied to dynamic bodies, in m/s².
const Gravity = 9.81

// MaxStepHeight is the tallest ledge a body walks onto without jumping.
const MaxStepHeight = 0.25

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
