package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-retune/dsp/buffer"
)

const (
	defaultSampleRate = 48000
	defaultSeed       = 1
)

// Generator creates deterministic mono test and reference signals.
type Generator struct {
	sampleRate int
	seed       int64
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithSampleRate sets the rate of generated buffers. Non-positive rates
// are ignored.
func WithSampleRate(sampleRate int) GeneratorOption {
	return func(g *Generator) {
		if sampleRate > 0 {
			g.sampleRate = sampleRate
		}
	}
}

// WithSeed sets the noise seed.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) { g.seed = seed }
}

// NewGenerator creates a generator at 48 kHz with seed 1 unless options
// say otherwise.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{sampleRate: defaultSampleRate, seed: defaultSeed}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the rate of generated buffers.
func (g *Generator) SampleRate() int { return g.sampleRate }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// SetSeed changes the noise seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Sine generates a sine wave of the given length.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) (*buffer.AudioBuffer, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if freqHz < 0 || math.IsNaN(freqHz) {
		return nil, fmt.Errorf("sine frequency must be >= 0: %f", freqHz)
	}
	out := buffer.NewAudio(samples, g.sampleRate)
	step := 2 * math.Pi * freqHz / float64(g.sampleRate)
	for i := range out.Samples {
		out.Samples[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out, nil
}

// Harmonics generates a tone whose partials k=1..len(weights) at k*freqHz
// have the given amplitudes. It approximates a voiced signal with a
// richer spectrum than a pure sine.
func (g *Generator) Harmonics(freqHz float64, weights []float64, samples int) (*buffer.AudioBuffer, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("harmonics samples must be > 0: %d", samples)
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("harmonics weights must not be empty")
	}
	out := buffer.NewAudio(samples, g.sampleRate)
	step := 2 * math.Pi * freqHz / float64(g.sampleRate)
	for i := range out.Samples {
		v := 0.0
		for k, w := range weights {
			v += w * math.Sin(step*float64(k+1)*float64(i))
		}
		out.Samples[i] = float32(v)
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) (*buffer.AudioBuffer, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := buffer.NewAudio(samples, g.sampleRate)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out.Samples {
		out.Samples[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out, nil
}
