// Package wavio reads and writes mono AudioBuffers as RIFF/WAVE files.
//
// Decoding accepts 8, 16, 24 and 32-bit integer PCM and 32-bit IEEE float
// data with any channel count; channels are averaged to mono. Encoding
// writes either 32-bit float or 16-bit PCM.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-retune/dsp/buffer"
)

var (
	// ErrInvalidFile is returned when the input is not a readable WAVE file.
	ErrInvalidFile = errors.New("wavio: invalid wav file")
	// ErrUnsupportedFormat is returned for sample encodings Decode cannot map
	// to float32.
	ErrUnsupportedFormat = errors.New("wavio: unsupported sample format")
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// Format selects the sample encoding written by Encode.
type Format int

const (
	FormatFloat32 Format = iota
	FormatPCM16
)

func (f Format) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatPCM16:
		return "pcm16"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Info describes the container a buffer was decoded from.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Float      bool
}

// Decode reads a WAVE stream into a mono buffer.
func Decode(r io.ReadSeeker) (*buffer.AudioBuffer, Info, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, Info{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		return nil, Info{}, ErrInvalidFile
	}

	info := Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Float:      dec.WavAudioFormat == wavFormatFloat,
	}
	toFloat, err := sampleConverter(info, dec.WavAudioFormat)
	if err != nil {
		return nil, info, err
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, info, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	frames := len(pcm.Data) / info.Channels
	out := buffer.NewAudio(frames, info.SampleRate)
	scale := 1 / float32(info.Channels)
	for i := range out.Samples {
		var sum float32
		for _, v := range pcm.Data[i*info.Channels : (i+1)*info.Channels] {
			sum += toFloat(v)
		}
		out.Samples[i] = sum * scale
	}
	return out, info, nil
}

func sampleConverter(info Info, wavFormat uint16) (func(int) float32, error) {
	if info.Float {
		if info.BitDepth != 32 {
			return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedFormat, info.BitDepth)
		}
		return func(v int) float32 { return math.Float32frombits(uint32(v)) }, nil
	}
	if wavFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: wave format tag %d", ErrUnsupportedFormat, wavFormat)
	}

	switch info.BitDepth {
	case 8:
		return func(v int) float32 { return float32(v-128) / 128 }, nil
	case 16, 24, 32:
		full := float32(int64(1) << (info.BitDepth - 1))
		return func(v int) float32 { return float32(v) / full }, nil
	default:
		return nil, fmt.Errorf("%w: %d-bit pcm", ErrUnsupportedFormat, info.BitDepth)
	}
}

// Encode writes b as a mono WAVE stream in the given format. PCM samples
// outside [-1, 1] are clipped.
func Encode(w io.WriteSeeker, b *buffer.AudioBuffer, format Format) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	data := make([]int, b.Len())
	var enc *wav.Encoder
	switch format {
	case FormatFloat32:
		enc = wav.NewEncoder(w, b.SampleRate, 32, 1, wavFormatFloat)
		for i, v := range b.Samples {
			data[i] = int(int32(math.Float32bits(v)))
		}
	case FormatPCM16:
		enc = wav.NewEncoder(w, b.SampleRate, 16, 1, wavFormatPCM)
		for i, v := range b.Samples {
			data[i] = int(math.Round(float64(max(-1, min(1, v))) * math.MaxInt16))
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: b.SampleRate},
		SourceBitDepth: enc.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize header: %w", err)
	}
	return nil
}

// ReadFile decodes the WAVE file at path.
func ReadFile(path string) (*buffer.AudioBuffer, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()

	b, info, err := Decode(f)
	if err != nil {
		return nil, info, fmt.Errorf("%s: %w", path, err)
	}
	return b, info, nil
}

// WriteFile encodes b to path, replacing any existing file.
func WriteFile(path string, b *buffer.AudioBuffer, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}
	if err := Encode(f, b, format); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
