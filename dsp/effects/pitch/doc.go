// Package pitch provides offline pitch shifters for mono audio buffers.
//
// Included processors:
//   - PSOLA: time-domain pitch-synchronous overlap-add driven by
//     autocorrelation pitch marks.
//   - PhaseVocoder: frequency-domain STFT time-stretch followed by linear
//     resampling.
//   - Shifter: shared interface for interchangeable engines.
//
// Both engines clamp the requested ratio to [MinRatio, MaxRatio], return a
// new buffer with the input's length and sample rate, and normalize the
// result to a 0.9 peak unless it is effectively silent. Engines keep no
// state between calls and are safe for concurrent use.
package pitch
