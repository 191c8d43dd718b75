package f0

import (
	"github.com/tphakala/simd/f32"
)

// EstimateF0 runs YIN over samples using len(samples)/2 lags and returns
// the fundamental in Hz and a confidence in [0, 1]. Unvoiced input yields
// (-1, 0).
//
// threshold bounds the cumulative mean normalized difference accepted as
// a period; 0.05 is strict, 0.15 balanced and 0.3 lenient.
func EstimateF0(samples []float32, sampleRate int, threshold float64) (f0, confidence float64) {
	half := len(samples) / 2
	return yin(samples, sampleRate, threshold, 2, half)
}

// yin searches lags [minTau, maxTau) of the first len(samples)/2 frame.
func yin(samples []float32, sampleRate int, threshold float64, minTau, maxTau int) (float64, float64) {
	half := len(samples) / 2
	maxTau = min(maxTau, half)
	minTau = max(minTau, 2)
	if sampleRate <= 0 || maxTau-minTau < 2 {
		return -1, 0
	}

	cmndf := difference(samples[:half+maxTau], half, maxTau)

	tau := -1
	for t := minTau; t < maxTau; t++ {
		if cmndf[t] < threshold {
			for t+1 < maxTau && cmndf[t+1] < cmndf[t] {
				t++
			}
			tau = t
			break
		}
	}
	if tau < 0 {
		return -1, 0
	}

	return float64(sampleRate) / parabolicMinimum(cmndf, tau), 1 - cmndf[tau]
}

// difference returns the cumulative mean normalized difference of the
// width-sample frame for lags [0, maxTau).
//
// d(tau) = e(0) + e(tau) - 2 r(tau), where e is the frame energy at an
// offset and r the cross term.
func difference(x []float32, width, maxTau int) []float64 {
	frame := x[:width]
	e0 := float64(f32.DotProductUnsafe(frame, frame))

	cmndf := make([]float64, maxTau)
	cmndf[0] = 1
	sum := 0.0
	for tau := 1; tau < maxTau; tau++ {
		shifted := x[tau : tau+width]
		et := float64(f32.DotProductUnsafe(shifted, shifted))
		r := float64(f32.DotProductUnsafe(frame, shifted))
		d := max(e0+et-2*r, 0)

		sum += d
		if sum == 0 {
			cmndf[tau] = 1
			continue
		}
		cmndf[tau] = d * float64(tau) / sum
	}
	return cmndf
}

// parabolicMinimum refines tau through the parabola fitted to its
// neighbours.
func parabolicMinimum(c []float64, tau int) float64 {
	if tau < 1 || tau+1 >= len(c) {
		return float64(tau)
	}
	s0, s1, s2 := c[tau-1], c[tau], c[tau+1]
	denom := 2 * (2*s1 - s2 - s0)
	if denom == 0 {
		return float64(tau)
	}
	shift := (s2 - s0) / denom
	if shift < -1 || shift > 1 {
		return float64(tau)
	}
	return float64(tau) + shift
}

// FindAudioStart returns the index of the first sample whose magnitude
// exceeds level, looking at most maxSearch samples ahead (0 searches
// everything). It returns -1 when no such sample exists.
func FindAudioStart(samples []float32, level float32, maxSearch int) int {
	n := len(samples)
	if maxSearch > 0 && maxSearch < n {
		n = maxSearch
	}
	for i, v := range samples[:n] {
		if v > level || -v > level {
			return i
		}
	}
	return -1
}
