package tuning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteFrequency(t *testing.T) {
	assert.Equal(t, 440.0, NoteFrequency(69))
	assert.Equal(t, 880.0, NoteFrequency(81))
	assert.Equal(t, 220.0, NoteFrequency(57))
	assert.InDelta(t, 261.6256, NoteFrequency(60), 1e-4)
	assert.InDelta(t, 8.1758, NoteFrequency(0), 1e-4)
}

func TestMIDINote(t *testing.T) {
	assert.Equal(t, 69, MIDINote(440))
	assert.Equal(t, 60, MIDINote(261.63))
	assert.Equal(t, 69, MIDINote(445))
	assert.Equal(t, 70, MIDINote(455))
	assert.Equal(t, -1, MIDINote(0))
	assert.Equal(t, -1, MIDINote(-5))
	assert.Equal(t, -1, MIDINote(math.NaN()))
	assert.Equal(t, -1, MIDINote(math.Inf(1)))
}

func TestNoteName(t *testing.T) {
	cases := map[int]string{
		69:  "A4",
		60:  "C4",
		61:  "C#4",
		0:   "C-1",
		11:  "B-1",
		108: "C8",
		-1:  "B-2",
		-12: "C-2",
	}
	for midi, want := range cases {
		assert.Equal(t, want, NoteName(midi), "midi %d", midi)
	}
}

func TestParseNote(t *testing.T) {
	cases := map[string]int{
		"A4":   69,
		"a4":   69,
		"C4":   60,
		"C#4":  61,
		"Db4":  61,
		"Eb3":  51,
		"B#3":  60,
		"Cb4":  59,
		"C-1":  0,
		" G2 ": 43,
	}
	for name, want := range cases {
		got, err := ParseNote(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, bad := range []string{"", "A", "H4", "A#", "Ax4", "4A", "C##4"} {
		_, err := ParseNote(bad)
		assert.ErrorIs(t, err, ErrInvalidNote, bad)
	}
}

func TestParseNoteRoundTrip(t *testing.T) {
	for midi := 0; midi <= 127; midi++ {
		got, err := ParseNote(NoteName(midi))
		require.NoError(t, err)
		assert.Equal(t, midi, got)
	}
}

func TestSemitoneRatios(t *testing.T) {
	assert.InDelta(t, 2.0, SemitonesToRatio(12), 1e-12)
	assert.InDelta(t, 0.5, SemitonesToRatio(-12), 1e-12)
	assert.InDelta(t, 1.4983, SemitonesToRatio(7), 1e-4)
	assert.InDelta(t, 7.0, RatioToSemitones(SemitonesToRatio(7)), 1e-12)
	assert.InDelta(t, -5.0, RatioToSemitones(SemitonesToRatio(-5)), 1e-12)
}

func TestFrequencyRatio(t *testing.T) {
	r, err := FrequencyRatio(440, 660)
	require.NoError(t, err)
	assert.Equal(t, 1.5, r)

	for _, pair := range [][2]float64{{0, 440}, {440, -1}, {math.NaN(), 440}, {440, math.Inf(1)}} {
		_, err := FrequencyRatio(pair[0], pair[1])
		assert.Error(t, err)
	}
}

func TestNearestNote(t *testing.T) {
	midi, f := NearestNote(452)
	assert.Equal(t, 69, midi)
	assert.Equal(t, 440.0, f)

	midi, f = NearestNote(-3)
	assert.Equal(t, -1, midi)
	assert.Equal(t, 0.0, f)
}

func TestNextOccurrence(t *testing.T) {
	cases := []struct {
		name      string
		recorded  float64
		class     int
		reference float64
		want      float64
	}{
		{"below reference moves up", 300, 9, 440, 440},
		{"above reference moves down", 500, 9, 440, 440},
		{"exact octave is skipped", 880, 9, 440, 440},
		{"equal to reference moves up", 440, 9, 440, 880},
		{"high recording", 10000, 0, 100, NoteFrequency(96)},
		{"nothing above", 5000, 9, 6000, 0},
		{"nothing below", 10, 9, 5, 0},
		{"class wraps", 300, 21, 440, 440},
	}
	for _, c := range cases {
		got := NextOccurrence(c.recorded, c.class, c.reference)
		assert.InDelta(t, c.want, got, 1e-9, c.name)
	}
}
