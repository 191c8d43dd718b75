package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-retune/dsp/buffer"
)

// DeterministicSine generates a deterministic mono sine buffer.
func DeterministicSine(freqHz float64, sampleRate int, amplitude float64, length int) *buffer.AudioBuffer {
	out := buffer.NewAudio(length, sampleRate)
	step := 2 * math.Pi * freqHz / float64(sampleRate)
	for i := range out.Samples {
		out.Samples[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, sampleRate int, amplitude float64, length int) *buffer.AudioBuffer {
	out := buffer.NewAudio(length, sampleRate)
	rng := rand.New(rand.NewSource(seed))
	for i := range out.Samples {
		out.Samples[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Silence returns an all-zero buffer.
func Silence(sampleRate, length int) *buffer.AudioBuffer {
	return buffer.NewAudio(length, sampleRate)
}

// Impulse generates a unit impulse at the given position.
func Impulse(sampleRate, length, pos int) *buffer.AudioBuffer {
	out := buffer.NewAudio(length, sampleRate)
	if pos >= 0 && pos < length {
		out.Samples[pos] = 1
	}
	return out
}
