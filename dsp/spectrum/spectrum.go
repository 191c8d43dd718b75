package spectrum

import "github.com/cwbudde/algo-vecmath"

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// Power returns |X[k]|^2 for each bin.
func Power(bins []complex128) []float64 {
	if len(bins) == 0 {
		return nil
	}
	parts := make([]float64, 3*len(bins))
	re, im, out := parts[:len(bins)], parts[len(bins):2*len(bins)], parts[2*len(bins):]
	for i, c := range bins {
		re[i], im[i] = real(c), imag(c)
	}
	vecmath.Power(out, re, im)
	return out
}
