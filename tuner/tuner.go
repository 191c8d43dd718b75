// Package tuner runs the end-to-end retuning job: read a recording,
// detect its pitch, pick a ratio, shift it and write the result.
package tuner

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"

	"github.com/cwbudde/algo-retune/dsp/buffer"
	"github.com/cwbudde/algo-retune/dsp/effects/pitch"
	"github.com/cwbudde/algo-retune/dsp/f0"
	"github.com/cwbudde/algo-retune/internal/store"
	"github.com/cwbudde/algo-retune/wavio"
)

// Report summarizes a finished run.
type Report struct {
	RunID       string
	Input       string
	SampleRate  int
	Samples     int
	SourceF0    float64
	Confidence  float64
	ReferenceF0 float64
	TargetF0    float64
	Ratio       float64
	Reason      string
	Engine      string
	Outputs     []string
	Marks       int
	Elapsed     time.Duration
}

// Tuner executes Config jobs. It is not safe for concurrent Run calls
// when history is enabled.
type Tuner struct {
	cfg     Config
	history *store.Store
}

// New validates cfg and opens the history database when configured.
func New(cfg Config) (*Tuner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config")
	}
	t := &Tuner{cfg: cfg}
	if cfg.HistoryPath != "" {
		s, err := store.Open(cfg.HistoryPath)
		if err != nil {
			return nil, errors.Wrapf(err, "open history %v", cfg.HistoryPath)
		}
		t.history = s
	}
	return t, nil
}

// Close releases the history database.
func (t *Tuner) Close() error {
	return t.history.Close()
}

// History returns the run store, or nil when history is disabled.
func (t *Tuner) History() *store.Store { return t.history }

type shifted struct {
	engine pitch.Engine
	out    *buffer.AudioBuffer
}

// Run processes the configured input. Cancelling ctx or hitting the
// configured timeout abandons the pitch engines and returns the context
// error.
func (t *Tuner) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	in, info, err := wavio.ReadFile(t.cfg.Input)
	if err != nil {
		return nil, errors.Wrapf(err, "read input")
	}
	logger.Tf(ctx, "load input ok, file=%v, rate=%v, channels=%v, bits=%v, samples=%v, duration=%v",
		t.cfg.Input, info.SampleRate, info.Channels, info.BitDepth, in.Len(), in.Duration())

	report := &Report{Input: t.cfg.Input, SampleRate: in.SampleRate, Samples: in.Len(), SourceF0: -1}

	detector, err := f0.NewDetector(in.SampleRate, f0.WithThreshold(t.cfg.Threshold))
	if err != nil {
		return nil, errors.Wrapf(err, "pitch detector")
	}
	if res, err := detector.Detect(in.Samples); err != nil {
		logger.Wf(ctx, "no pitch in %v, err %v", t.cfg.Input, err)
	} else {
		report.SourceF0, report.Confidence = res.Frequency, res.Confidence
		logger.Tf(ctx, "detect pitch ok, f0=%.2fHz, confidence=%.3f, start=%v, threshold=%v",
			res.Frequency, res.Confidence, res.Start, res.Threshold)
	}

	if t.cfg.Reference != "" {
		refF0, err := t.referencePitch()
		if err != nil {
			return nil, errors.Wrapf(err, "reference %v", t.cfg.Reference)
		}
		report.ReferenceF0 = refF0
	}

	choice, err := ChooseRatio(report.SourceF0, report.ReferenceF0, t.cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "choose ratio")
	}
	report.Ratio, report.TargetF0, report.Reason = choice.Ratio, choice.TargetF0, choice.Reason
	logger.Tf(ctx, "choose ratio ok, ratio=%.4f, target=%.2fHz, by=%v", choice.Ratio, choice.TargetF0, choice.Reason)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "before shift")
	}

	results, err := t.shiftAsync(ctx, in, choice.Ratio)
	if err != nil {
		return nil, errors.Wrapf(err, "shift")
	}

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.engine.String())
		if r.engine == pitch.EnginePSOLA {
			report.Marks = len(pitch.DetectMarks(in.Samples))
		}
	}
	report.Engine = strings.Join(names, "+")

	format := wavio.FormatFloat32
	if t.cfg.PCM16 {
		format = wavio.FormatPCM16
	}
	for _, r := range results {
		path := t.cfg.Output
		if len(results) > 1 {
			path = OutputPath(t.cfg.Output, r.engine)
		}
		if err := wavio.WriteFile(path, r.out, format); err != nil {
			return nil, errors.Wrapf(err, "write %v", path)
		}
		report.Outputs = append(report.Outputs, path)
		logger.Tf(ctx, "write output ok, engine=%v, file=%v, format=%v", r.engine, path, format)
	}

	report.Elapsed = time.Since(started)
	if err := t.record(ctx, report); err != nil {
		return nil, errors.Wrapf(err, "record history")
	}
	return report, nil
}

// shiftAsync runs the engines off the caller's goroutine so ctx can
// abandon them. The engines themselves are not interruptible.
func (t *Tuner) shiftAsync(ctx context.Context, in *buffer.AudioBuffer, ratio float64) ([]shifted, error) {
	type result struct {
		out []shifted
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := t.shift(ctx, in, ratio)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.out, r.err
	}
}

func (t *Tuner) shift(ctx context.Context, in *buffer.AudioBuffer, ratio float64) ([]shifted, error) {
	engines, fallback, err := t.cfg.engines()
	if err != nil {
		return nil, err
	}

	out := make([]shifted, len(engines))
	errs := make([]error, len(engines))
	var wg sync.WaitGroup
	for i, e := range engines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i], errs[i] = t.shiftOne(ctx, e, in, ratio, fallback)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "engine %v", engines[i])
		}
	}
	return out, nil
}

func (t *Tuner) shiftOne(ctx context.Context, e pitch.Engine, in *buffer.AudioBuffer, ratio float64, fallback bool) (shifted, error) {
	s, err := t.newShifter(e)
	if err != nil {
		return shifted{}, err
	}
	out, err := s.Shift(in, ratio)
	if err != nil && fallback && stderrors.Is(err, pitch.ErrInsufficientPitchMarks) {
		logger.Wf(ctx, "psola failed, fall back to vocoder, err %v", err)
		return t.shiftOne(ctx, pitch.EnginePhaseVocoder, in, ratio, false)
	}
	if err != nil {
		return shifted{}, err
	}
	return shifted{engine: e, out: out}, nil
}

func (t *Tuner) newShifter(e pitch.Engine) (pitch.Shifter, error) {
	if e == pitch.EnginePhaseVocoder {
		v := pitch.NewPhaseVocoder()
		v.SetStrict(t.cfg.Strict)
		return v, nil
	}
	return pitch.New(e)
}

func (t *Tuner) referencePitch() (float64, error) {
	ref, _, err := wavio.ReadFile(t.cfg.Reference)
	if err != nil {
		return 0, err
	}
	detector, err := f0.NewDetector(ref.SampleRate, f0.WithThreshold(t.cfg.Threshold))
	if err != nil {
		return 0, err
	}
	res, err := detector.Detect(ref.Samples)
	if err != nil {
		return 0, err
	}
	return res.Frequency, nil
}

func (t *Tuner) record(ctx context.Context, r *Report) error {
	if t.history == nil {
		return nil
	}
	run := &store.Run{
		Input:      r.Input,
		Outputs:    strings.Join(r.Outputs, ","),
		Engine:     r.Engine,
		SampleRate: r.SampleRate,
		Samples:    r.Samples,
		SourceF0:   r.SourceF0,
		Confidence: r.Confidence,
		TargetF0:   r.TargetF0,
		Ratio:      r.Ratio,
		Marks:      r.Marks,
		ElapsedMs:  r.Elapsed.Milliseconds(),
	}
	if err := t.history.Record(ctx, run); err != nil {
		return err
	}
	r.RunID = run.ID
	return nil
}

// OutputPath derives the per-engine file name used when several engines
// run: "out.wav" becomes "out.psola.wav".
func OutputPath(output string, e pitch.Engine) string {
	ext := filepath.Ext(output)
	if ext == "" {
		ext = ".wav"
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + e.String() + ext
}
