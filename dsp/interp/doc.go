// Package interp provides fractional-position interpolation primitives
// used by the resampling stage of the pitch engines.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// [At] reads a slice at a fractional index with a selectable [Mode];
// positions past the end of the slice read as silence.
package interp
