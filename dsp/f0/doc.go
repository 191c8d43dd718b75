// Package f0 estimates the fundamental frequency of monophonic audio with
// the YIN algorithm.
//
// EstimateF0 analyses a whole slice. Detector adds a frequency range, a
// fixed analysis window and a search over several start positions for
// recordings that begin with silence.
package f0
