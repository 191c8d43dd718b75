package f0

import (
	"errors"
	"fmt"
	"math"
)

// Detector defaults.
const (
	DefaultThreshold = 0.15
	DefaultWindow    = 2048
	DefaultMinHz     = 40.0
	DefaultMaxHz     = 2000.0

	// LenientThreshold is the threshold of the second pass after an
	// unvoiced first pass.
	LenientThreshold = 0.3

	// startLevel matches 5 LSB of 16-bit PCM.
	startLevel     = 5.0 / 32768
	startSearchMax = 100000
)

// ErrNoPitch is returned by Detect when no candidate window is voiced.
var ErrNoPitch = errors.New("f0: no voiced pitch found")

// Result describes one pitch estimate.
type Result struct {
	// Frequency is the fundamental in Hz, or -1 when unvoiced.
	Frequency float64
	// Confidence is 1 minus the normalized difference at the chosen lag.
	Confidence float64
	// Start is the first sample of the analysed window.
	Start int
	// Threshold is the YIN threshold that produced the estimate.
	Threshold float64
}

// Voiced reports whether r carries a pitch.
func (r Result) Voiced() bool { return r.Frequency > 0 }

// Option mutates Detector construction parameters.
type Option func(*config) error

type config struct {
	threshold    float64
	window       int
	minHz, maxHz float64
}

func defaultConfig() config {
	return config{
		threshold: DefaultThreshold,
		window:    DefaultWindow,
		minHz:     DefaultMinHz,
		maxHz:     DefaultMaxHz,
	}
}

// WithThreshold sets the YIN threshold in (0, 1).
func WithThreshold(threshold float64) Option {
	return func(cfg *config) error {
		if !(threshold > 0 && threshold < 1) {
			return fmt.Errorf("f0 threshold must be in (0, 1): %f", threshold)
		}
		cfg.threshold = threshold
		return nil
	}
}

// WithWindow sets the number of samples analysed per estimate.
func WithWindow(size int) Option {
	return func(cfg *config) error {
		if size < 64 {
			return fmt.Errorf("f0 window must be >= 64: %d", size)
		}
		cfg.window = size
		return nil
	}
}

// WithRange limits detection to [minHz, maxHz].
func WithRange(minHz, maxHz float64) Option {
	return func(cfg *config) error {
		if !(minHz > 0) || !(maxHz > minHz) || math.IsInf(maxHz, 0) {
			return fmt.Errorf("f0 range must satisfy 0 < min < max: [%f, %f]", minHz, maxHz)
		}
		cfg.minHz, cfg.maxHz = minHz, maxHz
		return nil
	}
}

// Detector estimates the pitch of a recording.
type Detector struct {
	sampleRate int
	cfg        config
}

// NewDetector creates a detector with a 0.15 threshold, a 2048-sample
// window and a 40-2000 Hz range unless overridden.
func NewDetector(sampleRate int, opts ...Option) (*Detector, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("f0 sample rate must be > 0: %d", sampleRate)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Detector{sampleRate: sampleRate, cfg: cfg}, nil
}

// SampleRate returns the rate the detector converts lags with.
func (d *Detector) SampleRate() int { return d.sampleRate }

// Threshold returns the initial YIN threshold.
func (d *Detector) Threshold() float64 { return d.cfg.threshold }

// Window returns the analysis window length.
func (d *Detector) Window() int { return d.cfg.window }

// At estimates the pitch of the window starting at start. A window that
// runs past the end is shortened. An unvoiced first pass is retried once
// at LenientThreshold when the configured threshold is stricter.
func (d *Detector) At(samples []float32, start int) Result {
	res := Result{Frequency: -1, Start: start, Threshold: d.cfg.threshold}
	if start < 0 || start >= len(samples) {
		return res
	}
	frame := samples[start:min(start+d.cfg.window, len(samples))]

	minTau := int(math.Floor(float64(d.sampleRate) / d.cfg.maxHz))
	maxTau := int(math.Ceil(float64(d.sampleRate)/d.cfg.minHz)) + 1

	thresholds := []float64{d.cfg.threshold}
	if d.cfg.threshold < LenientThreshold {
		thresholds = append(thresholds, LenientThreshold)
	}
	for _, threshold := range thresholds {
		if f, conf := yin(frame, d.sampleRate, threshold, minTau, maxTau); f > 0 {
			res.Frequency, res.Confidence, res.Threshold = f, conf, threshold
			return res
		}
	}
	return res
}

// Detect finds the first voiced window among candidate starts: the first
// non-silent sample, the beginning, a quarter and half of the way in, and
// one second in.
func (d *Detector) Detect(samples []float32) (Result, error) {
	starts := d.candidates(samples)
	for _, start := range starts {
		if res := d.At(samples, start); res.Voiced() {
			return res, nil
		}
	}
	return Result{Frequency: -1}, fmt.Errorf("%w: tried %d windows over %d samples", ErrNoPitch, len(starts), len(samples))
}

func (d *Detector) candidates(samples []float32) []int {
	n := len(samples)
	raw := []int{FindAudioStart(samples, startLevel, startSearchMax), 0, n / 4, n / 2, d.sampleRate}

	out := make([]int, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for _, s := range raw {
		if s < 0 || s >= n || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
