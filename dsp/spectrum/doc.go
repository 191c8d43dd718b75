// Package spectrum provides spectrum-domain measurements of audio buffers.
//
// Analyze windows a whole buffer, runs a zero-padded algo-fft transform and
// exposes the measurements used to judge pitch shifting results: dominant
// frequency and spectral centroid. MagnitudeFromParts and Power reduce
// complex bins through the algo-vecmath kernels.
package spectrum
