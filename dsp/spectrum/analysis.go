package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-retune/dsp/window"
)

// ErrEmptyInput is returned when there is nothing to analyse.
var ErrEmptyInput = errors.New("spectrum: empty input")

// Analysis is the one-sided power spectrum of a Blackman-windowed buffer.
type Analysis struct {
	// Power holds |X[k]|^2 for k in [0, N/2].
	Power []float64
	// BinHz is the frequency spacing of adjacent bins.
	BinHz float64
}

// Analyze windows samples, zero-pads them to the next power of two and
// returns their power spectrum.
func Analyze(samples []float32, sampleRate int) (*Analysis, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %d", sampleRate)
	}

	size := nextPowerOfTwo(len(samples))
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	win := window.Generate(window.TypeBlackman, len(samples), window.WithPeriodic())
	bins := make([]complex128, size)
	for i, v := range samples {
		bins[i] = complex(float64(v)*win[i], 0)
	}
	if err := plan.Forward(bins, bins); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	return &Analysis{
		Power: Power(bins[:size/2+1]),
		BinHz: float64(sampleRate) / float64(size),
	}, nil
}

// DominantFrequency returns the frequency of the strongest non-DC bin,
// refined by parabolic interpolation over the log spectrum. Silent input
// yields 0.
func (a *Analysis) DominantFrequency() float64 {
	if len(a.Power) < 2 {
		return 0
	}
	best := 1
	for k := 2; k < len(a.Power); k++ {
		if a.Power[k] > a.Power[best] {
			best = k
		}
	}
	if a.Power[best] == 0 {
		return 0
	}

	offset := 0.0
	if best > 1 && best < len(a.Power)-1 {
		l := math.Log(a.Power[best-1] + 1e-300)
		c := math.Log(a.Power[best])
		r := math.Log(a.Power[best+1] + 1e-300)
		if den := l - 2*c + r; den < 0 {
			offset = 0.5 * (l - r) / den
		}
	}
	return (float64(best) + offset) * a.BinHz
}

// Centroid returns the magnitude-weighted mean frequency. Silent input
// yields 0.
func (a *Analysis) Centroid() float64 {
	num, den := 0.0, 0.0
	for k, p := range a.Power {
		m := math.Sqrt(p)
		num += float64(k) * a.BinHz * m
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// DominantFrequency analyses samples and returns their strongest frequency.
func DominantFrequency(samples []float32, sampleRate int) (float64, error) {
	a, err := Analyze(samples, sampleRate)
	if err != nil {
		return 0, err
	}
	return a.DominantFrequency(), nil
}

// Centroid analyses samples and returns their spectral centroid.
func Centroid(samples []float32, sampleRate int) (float64, error) {
	a, err := Analyze(samples, sampleRate)
	if err != nil {
		return 0, err
	}
	return a.Centroid(), nil
}

// RMS returns the root-mean-square level of samples.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
