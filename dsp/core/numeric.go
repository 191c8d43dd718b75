// Package core holds small numeric helpers shared by the DSP packages.
package core

// Clamp limits value to the inclusive range between lo and hi. The bounds
// may be given in either order. NaN passes through unchanged.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case value < lo:
		return lo
	case value > hi:
		return hi
	}
	return value
}

// ClampInt is Clamp for integer sizes such as grain lengths.
func ClampInt(value, lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return max(lo, min(value, hi))
}
