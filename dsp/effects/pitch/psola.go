package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-retune/dsp/buffer"
	"github.com/cwbudde/algo-retune/dsp/core"
	"github.com/cwbudde/algo-retune/dsp/signal"
	"github.com/cwbudde/algo-retune/dsp/window"
)

const (
	minGrainSize       = 64
	maxGrainSize       = 4096
	minSynthesisPeriod = 20
)

var grainPool buffer.ScratchPool

// PSOLA shifts pitch in the time domain by re-spacing Hann-windowed grains
// taken around each pitch mark.
//
// Grains are copied from the nearest analysis mark and overlap-added at
// synthesis marks spaced by period/ratio, so formants stay in place while
// the repetition rate changes.
type PSOLA struct {
	detector *MarkDetector
}

// NewPSOLA creates a PSOLA engine with the default mark detector.
func NewPSOLA() *PSOLA {
	return &PSOLA{detector: NewMarkDetector()}
}

// Name returns "psola".
func (p *PSOLA) Name() string { return EnginePSOLA.String() }

// Detector returns the mark detector for tuning. It must not be changed
// while Shift runs.
func (p *PSOLA) Detector() *MarkDetector { return p.detector }

// Shift returns a pitch-shifted copy of in with the same length and
// sample rate. ratio is clamped to [MinRatio, MaxRatio].
func (p *PSOLA) Shift(in *buffer.AudioBuffer, ratio float64) (*buffer.AudioBuffer, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("psola: %w", err)
	}
	ratio = ClampRatio(ratio)

	marks := p.detector.Detect(in.Samples)
	if len(marks) < 2 {
		return nil, fmt.Errorf("psola: %w: found %d in %d samples", ErrInsufficientPitchMarks, len(marks), in.Len())
	}

	n := in.Len()
	nominal := core.ClampInt(2*marks.MeanPeriod(), minGrainSize, maxGrainSize)
	synthesis := synthesisMarks(marks.Periods(), ratio, n)

	grain := grainPool.Get(nominal)
	defer grainPool.Put(grain)

	acc := make([]float64, n)
	windows := make(map[int][]float64)
	for _, center := range synthesis {
		j := marks.Nearest(center)

		size := nominal
		if j+1 < len(marks) {
			if local := marks[j+1] - marks[j]; local >= minSynthesisPeriod && local < MaxPeriod {
				size = min(2*local, nominal)
			}
		}
		win, ok := windows[size]
		if !ok {
			win = window.Generate(window.TypeHann, size)
			windows[size] = win
		}

		g := (*grain)[:size]
		src := marks[j] - size/2
		for i := range g {
			g[i] = 0
			if idx := src + i; idx >= 0 && idx < n {
				g[i] = float64(in.Samples[idx])
			}
		}
		vecmath.MulBlockInPlace(g, win)

		dst := center - size/2
		for i, v := range g {
			if idx := dst + i; idx >= 0 && idx < n {
				acc[idx] += v
			}
		}
	}

	out := buffer.NewAudio(n, in.SampleRate)
	for i, v := range acc {
		out.Samples[i] = float32(v)
	}
	signal.NormalizePeak(out.Samples, signal.TargetPeak, signal.SilenceFloor)
	return out, nil
}

// synthesisMarks lays out output marks from 0 using the analysis periods
// in order, each divided by ratio and floored at minSynthesisPeriod. Once
// the periods run out the last one repeats.
func synthesisMarks(periods []int, ratio float64, n int) Marks {
	out := Marks{0}
	if len(periods) == 0 {
		return out
	}
	pos := 0
	for i := 0; ; {
		pos += max(int(math.Round(float64(periods[i])/ratio)), minSynthesisPeriod)
		if pos >= n {
			return out
		}
		out = append(out, pos)
		if i < len(periods)-1 {
			i++
		}
	}
}

// ShiftPSOLA shifts in by ratio with a default PSOLA engine.
func ShiftPSOLA(in *buffer.AudioBuffer, ratio float64) (*buffer.AudioBuffer, error) {
	return NewPSOLA().Shift(in, ratio)
}
