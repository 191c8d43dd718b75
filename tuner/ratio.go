package tuner

import (
	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/cwbudde/algo-retune/dsp/effects/pitch"
	"github.com/cwbudde/algo-retune/dsp/tuning"
)

// ErrNoSourcePitch is returned when a target frequency is requested but
// the input has no detectable pitch.
var ErrNoSourcePitch = errors.New("no source pitch")

// Choice is a resolved pitch ratio.
type Choice struct {
	// Ratio is clamped to the engine range.
	Ratio float64
	// TargetF0 is the pitch the source moves to, or 0 when the source pitch
	// is unknown.
	TargetF0 float64
	// Reason names the rule that produced the ratio.
	Reason string
}

// ChooseRatio picks the pitch ratio for a source at source Hz, given an
// optional reference pitch (<= 0 when absent). The first configured rule
// wins: Ratio, Semitones, TargetHz, Note, reference, Snap. Without any
// rule the ratio is 1.
func ChooseRatio(source, reference float64, cfg Config) (Choice, error) {
	voiced := source > 0

	choose := func(ratio float64, reason string) (Choice, error) {
		c := Choice{Ratio: pitch.ClampRatio(ratio), Reason: reason}
		if voiced {
			c.TargetF0 = source * c.Ratio
		}
		return c, nil
	}
	toward := func(target float64, reason string) (Choice, error) {
		if !voiced {
			return Choice{Ratio: 1, Reason: reason}, errors.Wrapf(ErrNoSourcePitch, "%v", reason)
		}
		ratio, err := tuning.FrequencyRatio(source, target)
		if err != nil {
			return Choice{Ratio: 1, Reason: reason}, errors.Wrapf(err, "%v", reason)
		}
		return choose(ratio, reason)
	}

	switch {
	case cfg.Ratio > 0:
		return choose(cfg.Ratio, "ratio")
	case cfg.Semitones != 0:
		return choose(tuning.SemitonesToRatio(cfg.Semitones), "semitones")
	case cfg.TargetHz > 0:
		return toward(cfg.TargetHz, "target")
	case cfg.Note != "":
		midi, err := tuning.ParseNote(cfg.Note)
		if err != nil {
			return Choice{Ratio: 1, Reason: "note"}, errors.Wrapf(err, "note")
		}
		return toward(tuning.NoteFrequency(midi), "note")
	case reference > 0:
		class := tuning.NoteClass(tuning.MIDINote(reference))
		target := tuning.NextOccurrence(source, class, reference)
		if voiced && target == 0 {
			return choose(1, "reference")
		}
		return toward(target, "reference")
	case cfg.Snap:
		_, target := tuning.NearestNote(source)
		return toward(target, "snap")
	}
	return choose(1, "none")
}
