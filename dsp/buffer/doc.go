// Package buffer holds the audio value type shared by the pitch engines
// and a pool of float64 scratch slices.
//
// AudioBuffer is what crosses package boundaries: a mono float32 signal
// with its sample rate. ScratchPool serves hot loops that need
// short-lived float64 work areas.
package buffer
