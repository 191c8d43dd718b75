package interp

import "math"

// Mode selects the interpolation kernel used by At.
type Mode int

const (
	ModeLinear Mode = iota
	ModeHermite
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeHermite:
		return "hermite"
	default:
		return "unknown"
	}
}

// Linear2 interpolates from x0 to x1 at fraction t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// At returns src sampled at fractional index pos.
//
// When the right neighbour is missing the nearest sample is returned
// unchanged, and positions at or past len(src) (or negative) are 0.
// Hermite mode treats missing outer neighbours as repeats of the edge
// sample.
func At(src []float64, pos float64, mode Mode) float64 {
	if pos < 0 || math.IsNaN(pos) {
		return 0
	}
	idx := int(pos)
	if idx >= len(src) {
		return 0
	}
	if idx+1 >= len(src) {
		return src[idx]
	}

	frac := pos - float64(idx)
	if mode != ModeHermite {
		return Linear2(frac, src[idx], src[idx+1])
	}

	xm1 := src[idx]
	if idx > 0 {
		xm1 = src[idx-1]
	}
	x2 := src[idx+1]
	if idx+2 < len(src) {
		x2 = src[idx+2]
	}
	return Hermite4(frac, xm1, src[idx], src[idx+1], x2)
}
