// Package tuning converts between frequencies, MIDI note numbers, note
// names and pitch ratios in twelve-tone equal temperament with A4 = 440 Hz.
package tuning

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// ReferenceFrequency is the pitch of ReferenceNote in Hz.
	ReferenceFrequency = 440.0
	// ReferenceNote is the MIDI number of A4.
	ReferenceNote = 69

	// MinOccurrenceNote and MaxOccurrenceNote bound NextOccurrence.
	MinOccurrenceNote = 12
	MaxOccurrenceNote = 108
)

// ErrInvalidNote is returned by ParseNote for malformed names.
var ErrInvalidNote = errors.New("tuning: invalid note name")

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterClass = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// NoteFrequency returns the frequency of a MIDI note.
func NoteFrequency(midi int) float64 {
	return ReferenceFrequency * math.Exp2(float64(midi-ReferenceNote)/12)
}

// MIDINote returns the nearest MIDI note to freq, or -1 when freq is not a
// positive frequency.
func MIDINote(freq float64) int {
	if !(freq > 0) || math.IsInf(freq, 1) {
		return -1
	}
	return int(math.Round(12*math.Log2(freq/ReferenceFrequency))) + ReferenceNote
}

// NoteClass returns the pitch class 0..11 of a MIDI note, C being 0.
func NoteClass(midi int) int {
	return ((midi % 12) + 12) % 12
}

// NoteName formats a MIDI note with sharps and octave, e.g. 69 -> "A4".
func NoteName(midi int) string {
	octave := midi/12 - 1
	if midi < 0 && midi%12 != 0 {
		octave--
	}
	return sharpNames[NoteClass(midi)] + strconv.Itoa(octave)
}

// ParseNote parses names such as "A4", "C#3", "Eb2" or "c-1" into a MIDI
// note number.
func ParseNote(name string) (int, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	class, ok := letterClass[byte(strings.ToUpper(s[:1])[0])]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	s = s[1:]
	switch s[0] {
	case '#':
		class++
		s = s[1:]
	case 'b':
		class--
		s = s[1:]
	}
	octave, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	return (octave+1)*12 + class, nil
}

// SemitonesToRatio returns the frequency ratio spanning the given number
// of semitones.
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// RatioToSemitones is the inverse of SemitonesToRatio.
func RatioToSemitones(ratio float64) float64 {
	return 12 * math.Log2(ratio)
}

// FrequencyRatio returns the pitch ratio that moves source to target.
func FrequencyRatio(source, target float64) (float64, error) {
	if !(source > 0) || !(target > 0) || math.IsInf(source, 0) || math.IsInf(target, 0) {
		return 0, fmt.Errorf("tuning: frequencies must be positive and finite: %f -> %f", source, target)
	}
	return target / source, nil
}

// NearestNote snaps freq to the closest equal-tempered note. It returns
// -1 and 0 when freq is not a positive frequency.
func NearestNote(freq float64) (midi int, snapped float64) {
	midi = MIDINote(freq)
	if midi < 0 {
		return -1, 0
	}
	return midi, NoteFrequency(midi)
}

// NextOccurrence picks the frequency of pitch class noteClass that a
// recording at recorded Hz should move to, given the reference pitch the
// class was taken from.
//
// A recording above the reference moves down to the highest occurrence
// below it; otherwise it moves up to the lowest occurrence above it. Only
// notes in [MinOccurrenceNote, MaxOccurrenceNote] count. It returns 0
// when no occurrence qualifies.
func NextOccurrence(recorded float64, noteClass int, reference float64) float64 {
	noteClass = NoteClass(noteClass)
	if recorded > reference {
		for octave := 8; octave >= 1; octave-- {
			midi := noteClass + octave*12
			if midi < MinOccurrenceNote || midi > MaxOccurrenceNote {
				continue
			}
			if f := NoteFrequency(midi); f < recorded {
				return f
			}
		}
		return 0
	}
	for octave := 1; octave <= 8; octave++ {
		midi := noteClass + octave*12
		if midi < MinOccurrenceNote || midi > MaxOccurrenceNote {
			continue
		}
		if f := NoteFrequency(midi); f > recorded {
			return f
		}
	}
	return 0
}
