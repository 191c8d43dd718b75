package tuner

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/cwbudde/algo-retune/dsp/effects/pitch"
	"github.com/cwbudde/algo-retune/dsp/f0"
)

// Engine modes beyond the single pitch engines.
const (
	// EngineAuto tries PSOLA and falls back to the phase vocoder when the
	// input has too few pitch marks.
	EngineAuto = "auto"
	// EngineBoth runs both engines and writes one file per engine.
	EngineBoth = "both"
)

// Config describes one tuning job. Zero values of Ratio, Semitones and
// TargetHz mean unset.
type Config struct {
	Input     string
	Output    string
	Reference string

	Note      string
	TargetHz  float64
	Ratio     float64
	Semitones float64
	Snap      bool

	Engine    string
	Threshold float64
	PCM16     bool
	Strict    bool

	HistoryPath string
	Timeout     time.Duration
}

// DefaultConfig returns the automatic engine and the default YIN threshold.
func DefaultConfig() Config {
	return Config{
		Engine:    EngineAuto,
		Threshold: f0.DefaultThreshold,
	}
}

// LoadEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set are kept.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return errors.Wrapf(err, "load %v", file)
		}
	}
	return nil
}

// ConfigFromEnv starts from DefaultConfig and applies RETUNE_ENGINE,
// RETUNE_THRESHOLD, RETUNE_HISTORY, RETUNE_PCM16 and RETUNE_TIMEOUT.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("RETUNE_ENGINE"); v != "" {
		cfg.Engine = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("RETUNE_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse RETUNE_THRESHOLD=%v", v)
		}
		cfg.Threshold = threshold
	}
	cfg.HistoryPath = os.Getenv("RETUNE_HISTORY")
	if v := os.Getenv("RETUNE_PCM16"); v != "" {
		pcm16, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse RETUNE_PCM16=%v", v)
		}
		cfg.PCM16 = pcm16
	}
	if v := os.Getenv("RETUNE_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse RETUNE_TIMEOUT=%v", v)
		}
		cfg.Timeout = timeout
	}
	return cfg, nil
}

// Validate checks the fields Run depends on.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("no input file")
	}
	if c.Output == "" {
		return errors.New("no output file")
	}
	if _, _, err := c.engines(); err != nil {
		return err
	}
	if !(c.Threshold > 0 && c.Threshold < 1) {
		return errors.Errorf("threshold must be in (0, 1), got %v", c.Threshold)
	}
	if c.Ratio < 0 || c.TargetHz < 0 {
		return errors.Errorf("ratio %v and target %vHz must not be negative", c.Ratio, c.TargetHz)
	}
	if c.Timeout < 0 {
		return errors.Errorf("negative timeout %v", c.Timeout)
	}
	return nil
}

// engines resolves Engine into the engines to run and whether PSOLA may
// fall back to the phase vocoder.
func (c Config) engines() (engines []pitch.Engine, fallback bool, err error) {
	switch strings.ToLower(strings.TrimSpace(c.Engine)) {
	case "", EngineAuto:
		return []pitch.Engine{pitch.EnginePSOLA}, true, nil
	case EngineBoth:
		return []pitch.Engine{pitch.EnginePSOLA, pitch.EnginePhaseVocoder}, false, nil
	}
	e, err := pitch.ParseEngine(c.Engine)
	if err != nil {
		return nil, false, errors.Wrapf(err, "engine")
	}
	return []pitch.Engine{e}, false, nil
}
