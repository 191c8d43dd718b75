package tuner

import (
	"testing"

	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseRatioPrecedence(t *testing.T) {
	cases := []struct {
		name      string
		source    float64
		reference float64
		cfg       Config
		ratio     float64
		target    float64
		reason    string
	}{
		{"explicit ratio wins", 200, 440, Config{Ratio: 1.5, Semitones: 12, TargetHz: 100, Snap: true}, 1.5, 300, "ratio"},
		{"semitones", 200, 0, Config{Semitones: 12, TargetHz: 100}, 2, 400, "semitones"},
		{"target frequency", 200, 0, Config{TargetHz: 300, Note: "C4"}, 1.5, 300, "target"},
		{"note", 200, 440, Config{Note: "A3"}, 1.1, 220, "note"},
		{"reference class moves up", 300, 440, Config{Snap: true}, 440.0 / 300, 440, "reference"},
		{"reference class moves down", 500, 440, Config{}, 440.0 / 500, 440, "reference"},
		{"snap", 452, 0, Config{Snap: true}, 440.0 / 452, 440, "snap"},
		{"nothing configured", 200, 0, Config{}, 1, 200, "none"},
		{"ratio is clamped", 200, 0, Config{Ratio: 5}, 2, 400, "ratio"},
		{"target is clamped", 200, 0, Config{TargetHz: 50}, 0.5, 100, "target"},
		{"reference without occurrence", 5000, 6000, Config{}, 1, 5000, "reference"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ChooseRatio(c.source, c.reference, c.cfg)
			require.NoError(t, err)
			assert.InDelta(t, c.ratio, got.Ratio, 1e-12)
			assert.InDelta(t, c.target, got.TargetF0, 1e-9)
			assert.Equal(t, c.reason, got.Reason)
		})
	}
}

func TestChooseRatioWithoutSourcePitch(t *testing.T) {
	for name, cfg := range map[string]Config{
		"target": {TargetHz: 300},
		"note":   {Note: "A4"},
		"snap":   {Snap: true},
	} {
		got, err := ChooseRatio(-1, 0, cfg)
		assert.Equal(t, ErrNoSourcePitch, errors.Cause(err), name)
		assert.Equal(t, 1.0, got.Ratio, name)
	}

	_, err := ChooseRatio(-1, 440, Config{})
	assert.Equal(t, ErrNoSourcePitch, errors.Cause(err))

	got, err := ChooseRatio(-1, 0, Config{Ratio: 1.25})
	require.NoError(t, err)
	assert.Equal(t, 1.25, got.Ratio)
	assert.Equal(t, 0.0, got.TargetF0)

	got, err = ChooseRatio(-1, 0, Config{Semitones: -12})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got.Ratio, 1e-12)
}

func TestChooseRatioRejectsBadNote(t *testing.T) {
	_, err := ChooseRatio(200, 0, Config{Note: "H2"})
	require.Error(t, err)
}
