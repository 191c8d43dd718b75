// Package fft implements an in-place radix-2 discrete Fourier transform
// for power-of-two lengths.
//
// A Plan precomputes twiddle factors and the bit-reversal permutation for
// one length and is immutable afterwards, so one plan can serve many
// frames and many goroutines. Forward computes
//
//	X[k] = sum_n x[n] * e^(-2*pi*i*k*n/N)
//
// and Inverse is its normalized inverse (conjugate, forward, conjugate,
// scale by 1/N). Arbitrary lengths are not supported.
package fft
