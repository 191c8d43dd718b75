package pitch

import (
	"fmt"
	"sort"

	"github.com/tphakala/simd/f32"
)

const (
	// MinPeriod is the shortest lag, in samples, searched for a period.
	MinPeriod = 32
	// MaxPeriod is the analysis window length and the exclusive upper bound
	// of the lag search.
	MaxPeriod = 2048

	defaultVoicingThreshold = 0.3
	defaultFallbackStep     = 200
)

// Marks is an ascending list of pitch-mark sample positions. A detected
// set always starts at 0.
type Marks []int

// Periods returns the distances between consecutive marks.
func (m Marks) Periods() []int {
	if len(m) < 2 {
		return nil
	}
	out := make([]int, len(m)-1)
	for i := range out {
		out[i] = m[i+1] - m[i]
	}
	return out
}

// MeanPeriod returns the integer mean distance between marks, or 0 when
// there are fewer than two marks.
func (m Marks) MeanPeriod() int {
	if len(m) < 2 {
		return 0
	}
	return (m[len(m)-1] - m[0]) / (len(m) - 1)
}

// Nearest returns the index of the mark closest to pos. Ties resolve to
// the lower index. It returns -1 for an empty set.
func (m Marks) Nearest(pos int) int {
	if len(m) == 0 {
		return -1
	}
	j := sort.SearchInts(m, pos)
	if j == len(m) {
		return j - 1
	}
	if j > 0 && pos-m[j-1] <= m[j]-pos {
		return j - 1
	}
	return j
}

// MarkDetector places pitch marks by walking a signal one estimated
// period at a time.
type MarkDetector struct {
	voicingThreshold float32
	fallbackStep     int
}

// NewMarkDetector creates a detector with a 0.3 voicing threshold and a
// 200-sample step through unvoiced regions.
func NewMarkDetector() *MarkDetector {
	return &MarkDetector{
		voicingThreshold: defaultVoicingThreshold,
		fallbackStep:     defaultFallbackStep,
	}
}

// VoicingThreshold returns the minimum normalized correlation accepted as
// a period.
func (d *MarkDetector) VoicingThreshold() float64 { return float64(d.voicingThreshold) }

// FallbackStep returns the advance used where no period is found.
func (d *MarkDetector) FallbackStep() int { return d.fallbackStep }

// SetVoicingThreshold sets the minimum normalized correlation in (0, 1).
func (d *MarkDetector) SetVoicingThreshold(threshold float64) error {
	if !(threshold > 0 && threshold < 1) {
		return fmt.Errorf("mark detector voicing threshold must be in (0, 1): %f", threshold)
	}
	d.voicingThreshold = float32(threshold)
	return nil
}

// SetFallbackStep sets the advance used where no period is found.
func (d *MarkDetector) SetFallbackStep(step int) error {
	if step <= 0 {
		return fmt.Errorf("mark detector fallback step must be > 0: %d", step)
	}
	d.fallbackStep = step
	return nil
}

// EstimatePeriod finds the dominant period of the MaxPeriod-sample window
// starting at start.
//
// The correlation at lag L is the overlap dot product normalized by the
// energy of the whole window, so it stays in [-1, 1] and shrinks with
// (W-L)/W. That bias makes the fundamental win over its multiples. The
// first maximum over [MinPeriod, MaxPeriod) is returned when it exceeds
// the voicing threshold; ok is false when the window does not fit, is
// silent, or is unvoiced.
func (d *MarkDetector) EstimatePeriod(samples []float32, start int) (period int, ok bool) {
	if start < 0 || len(samples)-start < MaxPeriod {
		return 0, false
	}

	win := samples[start : start+MaxPeriod]
	energy := f32.DotProductUnsafe(win, win)
	if energy <= 0 {
		return 0, false
	}

	var best float32
	for lag := MinPeriod; lag < MaxPeriod; lag++ {
		corr := f32.DotProductUnsafe(win[:MaxPeriod-lag], win[lag:]) / energy
		if corr > best {
			best = corr
			period = lag
		}
	}
	if best <= d.voicingThreshold {
		return 0, false
	}
	return period, true
}

// Detect returns the pitch marks of samples: 0, then one mark per
// estimated period, stepping by the fallback step through unvoiced
// regions. Every mark lies inside the signal.
func (d *MarkDetector) Detect(samples []float32) Marks {
	if len(samples) == 0 {
		return nil
	}

	marks := Marks{0}
	for pos := 0; ; {
		period, ok := d.EstimatePeriod(samples, pos)
		if ok && period > 0 && period < MaxPeriod {
			pos += period
		} else {
			pos += d.fallbackStep
		}
		if pos >= len(samples) {
			return marks
		}
		marks = append(marks, pos)
	}
}

var defaultDetector = NewMarkDetector()

// EstimatePeriod runs the default detector's period estimate.
func EstimatePeriod(samples []float32, start int) (int, bool) {
	return defaultDetector.EstimatePeriod(samples, start)
}

// DetectMarks places pitch marks with the default detector.
func DetectMarks(samples []float32) Marks {
	return defaultDetector.Detect(samples)
}
