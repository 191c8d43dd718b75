package pitch

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-retune/dsp/buffer"
	"github.com/cwbudde/algo-retune/dsp/core"
)

const (
	// MinRatio is the lowest supported pitch ratio (one octave down).
	MinRatio = 0.5
	// MaxRatio is the highest supported pitch ratio (one octave up).
	MaxRatio = 2.0
)

// Shifter is the shared API of the interchangeable pitch engines.
type Shifter interface {
	// Shift returns a new buffer of the same length and sample rate with
	// pitch multiplied by ratio. in is never modified.
	Shift(in *buffer.AudioBuffer, ratio float64) (*buffer.AudioBuffer, error)
	Name() string
}

var (
	_ Shifter = (*PSOLA)(nil)
	_ Shifter = (*PhaseVocoder)(nil)
)

// ClampRatio limits ratio to [MinRatio, MaxRatio]. NaN maps to 1.
func ClampRatio(ratio float64) float64 {
	if math.IsNaN(ratio) {
		return 1
	}
	return core.Clamp(ratio, MinRatio, MaxRatio)
}

// Engine identifies a pitch engine.
type Engine int

const (
	EnginePSOLA Engine = iota
	EnginePhaseVocoder
)

// String returns the engine name used on command lines and in logs.
func (e Engine) String() string {
	switch e {
	case EnginePSOLA:
		return "psola"
	case EnginePhaseVocoder:
		return "vocoder"
	default:
		return fmt.Sprintf("engine(%d)", int(e))
	}
}

// ParseEngine maps a name such as "psola" or "vocoder" to an Engine.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "psola", "td-psola", "time":
		return EnginePSOLA, nil
	case "vocoder", "phase-vocoder", "phasevocoder", "pv", "spectral":
		return EnginePhaseVocoder, nil
	default:
		return 0, fmt.Errorf("pitch: unknown engine %q", name)
	}
}

// New returns a default-configured Shifter for e.
func New(e Engine) (Shifter, error) {
	switch e {
	case EnginePSOLA:
		return NewPSOLA(), nil
	case EnginePhaseVocoder:
		return NewPhaseVocoder(), nil
	default:
		return nil, fmt.Errorf("pitch: unknown engine %d", int(e))
	}
}
