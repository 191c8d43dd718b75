package buffer

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidAudio is returned by Validate for nil buffers and
// non-positive sample rates.
var ErrInvalidAudio = errors.New("buffer: invalid audio buffer")

// AudioBuffer is a mono, float32 sample sequence tagged with its sample
// rate. Amplitudes are nominally in [-1, 1] but this is not enforced.
type AudioBuffer struct {
	Samples    []float32
	SampleRate int
}

// NewAudio returns a silent AudioBuffer of the given length.
func NewAudio(length, sampleRate int) *AudioBuffer {
	if length < 0 {
		length = 0
	}
	return &AudioBuffer{Samples: make([]float32, length), SampleRate: sampleRate}
}

// AudioFromSlice wraps samples without copying.
func AudioFromSlice(samples []float32, sampleRate int) *AudioBuffer {
	return &AudioBuffer{Samples: samples, SampleRate: sampleRate}
}

// Len returns the number of samples. A nil buffer has length 0.
func (b *AudioBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Samples)
}

// Validate reports whether b can be handed to a processor.
func (b *AudioBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidAudio)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, b.SampleRate)
	}
	return nil
}

// Duration returns the playback length of the buffer.
func (b *AudioBuffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// Copy returns a deep copy of the buffer.
func (b *AudioBuffer) Copy() *AudioBuffer {
	s := make([]float32, len(b.Samples))
	copy(s, b.Samples)
	return &AudioBuffer{Samples: s, SampleRate: b.SampleRate}
}

// Float64 widens the samples into dst, growing it when needed, and
// returns the filled slice.
func (b *AudioBuffer) Float64(dst []float64) []float64 {
	if cap(dst) < len(b.Samples) {
		dst = make([]float64, len(b.Samples))
	}
	dst = dst[:len(b.Samples)]
	for i, v := range b.Samples {
		dst[i] = float64(v)
	}
	return dst
}
