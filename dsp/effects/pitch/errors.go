package pitch

import "errors"

var (
	// ErrInsufficientPitchMarks is returned by PSOLA when fewer than two
	// pitch marks can be placed in the input.
	ErrInsufficientPitchMarks = errors.New("pitch: insufficient pitch marks")
	// ErrDegenerateInput is returned by a strict PhaseVocoder when the input
	// cannot hold a single analysis frame.
	ErrDegenerateInput = errors.New("pitch: input shorter than one analysis frame")
)
