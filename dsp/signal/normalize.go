package signal

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f32"
)

const (
	// TargetPeak is the absolute peak the pitch engines normalize to.
	TargetPeak = 0.9
	// SilenceFloor is the peak at or below which a signal is left untouched.
	SilenceFloor = 0.001
)

// Peak returns the maximum absolute sample value.
func Peak(data []float32) float32 {
	var peak float32
	for _, v := range data {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// NormalizePeak scales data in place so its absolute peak equals target.
// Signals whose peak does not exceed floor are left unchanged, so silence
// and near-silence stay silent. It reports whether data was scaled.
func NormalizePeak(data []float32, target, floor float32) bool {
	peak := Peak(data)
	if peak <= floor || math.IsInf(float64(peak), 0) || math.IsNaN(float64(peak)) {
		return false
	}
	f32.Scale(data, data, target/peak)
	return true
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
