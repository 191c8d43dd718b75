package testutil

import "testing"

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float32{1, 2, 3}, []float32{1, 2.5, 2})
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Fatalf("MaxAbsDiff = %v, want 1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRequireHelpersPass(t *testing.T) {
	in := DeterministicSine(440, 8000, 0.5, 32)
	RequireSameShape(t, in, in.Copy())
	RequireFinite(t, in.Samples)
	RequireNearlyEqual(t, "freq", 657.5, 660, 0.05)
	RequireNearlyEqual(t, "zero", 1e-9, 0, 1e-6)
}
