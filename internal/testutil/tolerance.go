package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-retune/dsp/buffer"
)

// RequireFinite fails t if any sample is NaN or Inf.
func RequireFinite(t *testing.T, data []float32) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireSameShape fails t unless out has the length and sample rate of in.
func RequireSameShape(t *testing.T, in, out *buffer.AudioBuffer) {
	t.Helper()
	if out == nil {
		t.Fatal("output buffer is nil")
	}
	if out.Len() != in.Len() {
		t.Fatalf("length mismatch: got %d, want %d", out.Len(), in.Len())
	}
	if out.SampleRate != in.SampleRate {
		t.Fatalf("sample rate mismatch: got %d, want %d", out.SampleRate, in.SampleRate)
	}
}

// RequireNearlyEqual fails t if got and want differ relatively by more than tol.
func RequireNearlyEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if want == 0 {
		if math.Abs(got) > tol {
			t.Fatalf("%s = %v, want 0 (tol %v)", name, got, tol)
		}
		return
	}
	if rel := math.Abs(got-want) / math.Abs(want); rel > tol {
		t.Fatalf("%s = %v, want %v within %.1f%% (off by %.2f%%)", name, got, want, tol*100, rel*100)
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		maxDiff = math.Max(maxDiff, math.Abs(float64(a[i])-float64(b[i])))
	}
	return maxDiff, nil
}
