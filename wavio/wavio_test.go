package wavio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-retune/dsp/buffer"
	"github.com/cwbudde/algo-retune/internal/testutil"
)

func writeRaw(t *testing.T, rate, bitDepth, channels, format int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bitDepth, channels, format)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	return path
}

func TestFloat32RoundTrip(t *testing.T) {
	in := testutil.DeterministicSine(440, 48000, 0.8, 4800)
	in.Samples[10] = 1.5
	in.Samples[11] = -2

	path := filepath.Join(t.TempDir(), "float.wav")
	require.NoError(t, WriteFile(path, in, FormatFloat32))

	out, info, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Info{SampleRate: 48000, Channels: 1, BitDepth: 32, Float: true}, info)
	assert.Equal(t, in.SampleRate, out.SampleRate)
	assert.Equal(t, in.Samples, out.Samples)
}

func TestPCM16RoundTrip(t *testing.T) {
	in := testutil.DeterministicNoise(7, 22050, 0.9, 3000)
	in.Samples[0] = 1.2
	in.Samples[1] = -1.2

	path := filepath.Join(t.TempDir(), "pcm.wav")
	require.NoError(t, WriteFile(path, in, FormatPCM16))

	out, info, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 16, info.BitDepth)
	assert.False(t, info.Float)
	require.Equal(t, in.Len(), out.Len())

	assert.InDelta(t, 32767.0/32768, out.Samples[0], 1e-9)
	assert.InDelta(t, -32767.0/32768, out.Samples[1], 1e-9)
	for i := 2; i < in.Len(); i++ {
		assert.InDelta(t, in.Samples[i], out.Samples[i], 2.0/32768, "sample %d", i)
	}
}

func TestDecodeDownmixesStereo(t *testing.T) {
	path := writeRaw(t, 44100, 16, 2, 1, []int{16384, 0, -16384, -16384, 32767, -32767})

	out, info, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Channels)
	require.Equal(t, 3, out.Len())
	assert.InDelta(t, 0.25, out.Samples[0], 1e-6)
	assert.InDelta(t, -0.5, out.Samples[1], 1e-6)
	assert.InDelta(t, 0, out.Samples[2], 1e-6)
}

func TestDecode8Bit(t *testing.T) {
	path := writeRaw(t, 8000, 8, 1, 1, []int{128, 255, 0, 192})

	out, _, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 127.0 / 128, -1, 0.5}, out.Samples)
}

func TestDecode24Bit(t *testing.T) {
	path := writeRaw(t, 96000, 24, 1, 1, []int{1 << 22, -(1 << 23), 0})

	out, info, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 24, info.BitDepth)
	assert.Equal(t, []float32{0.5, -1, 0}, out.Samples)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("definitely not a riff file")))
	require.ErrorIs(t, err, ErrInvalidFile)

	_, _, err = Decode(bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestDecodeRejectsUnsupportedFormats(t *testing.T) {
	for name, format := range map[string]int{"16-bit float": 3, "adpcm": 2} {
		path := writeRaw(t, 8000, 16, 1, format, []int{1, 2, 3, 4})
		_, _, err := ReadFile(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestEncodeRejectsInvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	err := WriteFile(path, buffer.AudioFromSlice([]float32{0.1}, 0), FormatFloat32)
	require.ErrorIs(t, err, buffer.ErrInvalidAudio)

	err = WriteFile(path, testutil.Silence(8000, 10), Format(9))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.wav"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "float32", FormatFloat32.String())
	assert.Equal(t, "pcm16", FormatPCM16.String())
	assert.Equal(t, "format(5)", Format(5).String())
}
