package pitch

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-retune/dsp/buffer"
	"github.com/cwbudde/algo-retune/dsp/fft"
	"github.com/cwbudde/algo-retune/dsp/interp"
	"github.com/cwbudde/algo-retune/dsp/signal"
	"github.com/cwbudde/algo-retune/dsp/spectrum"
	"github.com/cwbudde/algo-retune/dsp/window"
)

const (
	// FFTSize is the phase vocoder frame length.
	FFTSize = 2048
	// HopSize is the analysis hop between frames.
	HopSize = 512

	stretchHeadroom = 1.2
	overlapGain     = 2.0 / (FFTSize / HopSize)
)

// PhaseVocoder shifts pitch by time-stretching with an STFT phase vocoder
// and resampling the stretched signal back to the input length.
//
// Frames are analysed every HopSize samples and resynthesised every
// round(HopSize*ratio) samples, so the realised ratio is quantized to
// synthesisHop/HopSize.
type PhaseVocoder struct {
	strict        bool
	interpolation interp.Mode
}

// NewPhaseVocoder creates a phase vocoder with linear resampling that
// returns silence for inputs shorter than one frame.
func NewPhaseVocoder() *PhaseVocoder {
	return &PhaseVocoder{interpolation: interp.ModeLinear}
}

// Name returns "vocoder".
func (v *PhaseVocoder) Name() string { return EnginePhaseVocoder.String() }

// Strict reports whether degenerate input is an error.
func (v *PhaseVocoder) Strict() bool { return v.strict }

// SetStrict makes Shift return ErrDegenerateInput instead of silence when
// no full frame fits the input.
func (v *PhaseVocoder) SetStrict(strict bool) { v.strict = strict }

// Interpolation returns the resampling kernel.
func (v *PhaseVocoder) Interpolation() interp.Mode { return v.interpolation }

// SetInterpolation selects the resampling kernel.
func (v *PhaseVocoder) SetInterpolation(mode interp.Mode) error {
	if mode != interp.ModeLinear && mode != interp.ModeHermite {
		return fmt.Errorf("phase vocoder interpolation mode not supported: %d", mode)
	}
	v.interpolation = mode
	return nil
}

// SynthesisHop returns the synthesis hop used for ratio.
func SynthesisHop(ratio float64) int {
	return max(int(math.Round(HopSize*ClampRatio(ratio))), 1)
}

// EffectiveRatio returns the pitch ratio actually realised for a
// requested ratio.
func EffectiveRatio(ratio float64) float64 {
	return float64(SynthesisHop(ratio)) / HopSize
}

// Shift returns a pitch-shifted copy of in with the same length and
// sample rate. ratio is clamped to [MinRatio, MaxRatio].
func (v *PhaseVocoder) Shift(in *buffer.AudioBuffer, ratio float64) (*buffer.AudioBuffer, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("phase vocoder: %w", err)
	}
	ratio = ClampRatio(ratio)

	n := in.Len()
	out := buffer.NewAudio(n, in.SampleRate)
	synthesisHop := SynthesisHop(ratio)
	capacity := int(float64(n) * ratio * stretchHeadroom)

	if n < FFTSize || capacity < FFTSize {
		if v.strict {
			return nil, fmt.Errorf("phase vocoder: %w: %d samples", ErrDegenerateInput, n)
		}
		return out, nil
	}

	st, err := newVocoderState()
	if err != nil {
		return nil, err
	}

	stretched := make([]float64, capacity)
	frames, outPos := 0, 0
	for inPos := 0; inPos+FFTSize <= n && outPos+FFTSize <= capacity; inPos += HopSize {
		if err := st.processFrame(in.Samples[inPos:inPos+FFTSize], synthesisHop); err != nil {
			return nil, err
		}
		st.overlapAdd(stretched[outPos : outPos+FFTSize])
		outPos += synthesisHop
		frames++
	}

	filled := stretched[:(frames-1)*synthesisHop+FFTSize]
	f64.Scale(filled, filled, overlapGain)

	stretchedLength := math.Round(float64(n) * float64(synthesisHop) / HopSize)
	step := stretchedLength / float64(n)
	for i := range out.Samples {
		out.Samples[i] = float32(interp.At(filled, float64(i)*step, v.interpolation))
	}

	signal.NormalizePeak(out.Samples, signal.TargetPeak, signal.SilenceFloor)
	return out, nil
}

// vocoderState is the per-call analysis/synthesis arena. It is reused
// across the frames of one Shift call and never shared.
type vocoderState struct {
	plan   *fft.Plan
	window []float64
	frame  []complex128

	re, im, mag         []float64
	lastPhase, sumPhase []float64
}

func newVocoderState() (*vocoderState, error) {
	plan, err := fft.NewPlan(FFTSize)
	if err != nil {
		return nil, fmt.Errorf("phase vocoder: failed to create FFT plan: %w", err)
	}

	half := FFTSize / 2
	return &vocoderState{
		plan:      plan,
		window:    window.Generate(window.TypeHann, FFTSize),
		frame:     make([]complex128, FFTSize),
		re:        make([]float64, half),
		im:        make([]float64, half),
		mag:       make([]float64, half),
		lastPhase: make([]float64, half),
		sumPhase:  make([]float64, half),
	}, nil
}

// processFrame analyses one FFTSize block of input and leaves the
// resynthesised, not yet windowed, time-domain frame in st.frame.
//
// Bins [0, N/2) carry magnitude and accumulated phase. Bin 0 is reduced to
// its real part and the Nyquist bin is zeroed, so mirroring bins
// (N/2, N) as conjugates gives a real inverse.
func (st *vocoderState) processFrame(src []float32, synthesisHop int) error {
	const (
		half     = FFTSize / 2
		binOmega = 2 * math.Pi / FFTSize
	)

	for i := range FFTSize {
		st.frame[i] = complex(float64(src[i])*st.window[i], 0)
	}
	if err := st.plan.Forward(st.frame); err != nil {
		return fmt.Errorf("phase vocoder: forward FFT failed: %w", err)
	}

	for k := range half {
		st.re[k] = real(st.frame[k])
		st.im[k] = imag(st.frame[k])
	}
	spectrum.MagnitudeFromParts(st.mag, st.re, st.im)

	hop := float64(HopSize)
	for k := range half {
		phase := math.Atan2(st.im[k], st.re[k])
		diff := wrapPhase(phase - st.lastPhase[k])
		st.lastPhase[k] = phase

		expected := binOmega * float64(k) * hop
		deviation := wrapPhase(diff - expected)
		trueFreq := binOmega*float64(k) + deviation/hop

		st.sumPhase[k] += trueFreq * float64(synthesisHop)
		st.frame[k] = cmplx.Rect(st.mag[k], st.sumPhase[k])
	}

	st.frame[0] = complex(real(st.frame[0]), 0)
	st.frame[half] = 0
	for k := half + 1; k < FFTSize; k++ {
		st.frame[k] = cmplx.Conj(st.frame[FFTSize-k])
	}

	if err := st.plan.Inverse(st.frame); err != nil {
		return fmt.Errorf("phase vocoder: inverse FFT failed: %w", err)
	}
	return nil
}

// overlapAdd windows the current frame into dst.
func (st *vocoderState) overlapAdd(dst []float64) {
	for i, w := range st.window {
		dst[i] += real(st.frame[i]) * w
	}
}

// wrapPhase maps x into [-pi, pi).
func wrapPhase(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x - math.Pi
}

// ShiftPhaseVocoder shifts in by ratio with a default phase vocoder.
func ShiftPhaseVocoder(in *buffer.AudioBuffer, ratio float64) (*buffer.AudioBuffer, error) {
	return NewPhaseVocoder().Shift(in, ratio)
}
