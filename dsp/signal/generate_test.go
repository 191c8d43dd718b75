package signal

import (
	"math"
	"testing"
)

func TestSineLengthAndRate(t *testing.T) {
	g := NewGenerator(WithSampleRate(44100))
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if s.Len() != 64 {
		t.Fatalf("len = %d, want 64", s.Len())
	}
	if s.SampleRate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", s.SampleRate)
	}
}

func TestSineRejectsInvalidArgs(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Sine(440, 1, 0); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := g.Sine(math.NaN(), 1, 8); err == nil {
		t.Fatal("expected error for NaN frequency")
	}
}

func TestHarmonicsFundamentalOnly(t *testing.T) {
	g := NewGenerator(WithSampleRate(8000))
	h, err := g.Harmonics(500, []float64{0.5}, 32)
	if err != nil {
		t.Fatal(err)
	}
	s, err := g.Sine(500, 0.5, 32)
	if err != nil {
		t.Fatal(err)
	}
	for i := range h.Samples {
		if math.Abs(float64(h.Samples[i]-s.Samples[i])) > 1e-6 {
			t.Fatalf("sample %d: harmonics %v != sine %v", i, h.Samples[i], s.Samples[i])
		}
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGenerator(WithSeed(42))
	g2 := NewGenerator(WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	for i := range n1.Samples {
		if n1.Samples[i] != n2.Samples[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1.Samples[i], n2.Samples[i])
		}
	}
}

func TestSetSeed(t *testing.T) {
	g := NewGenerator()
	g.SetSeed(99)
	if g.Seed() != 99 {
		t.Fatalf("Seed()=%d, want 99", g.Seed())
	}

	a, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	g.SetSeed(100)
	b, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatal(err)
	}

	same := true
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestWhiteNoiseBounded(t *testing.T) {
	g := NewGenerator()
	n, err := g.WhiteNoise(0.25, 4096)
	if err != nil {
		t.Fatal(err)
	}
	if p := Peak(n.Samples); p > 0.25 {
		t.Fatalf("peak = %v, want <= 0.25", p)
	}
	if _, err := g.WhiteNoise(-1, 8); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
}

func TestGeneratorDefaults(t *testing.T) {
	g := NewGenerator(WithSampleRate(-1), nil)
	if g.SampleRate() != 48000 || g.Seed() != 1 {
		t.Fatalf("defaults = %d/%d, want 48000/1", g.SampleRate(), g.Seed())
	}
	g.SetSeed(7)
	if g.Seed() != 7 {
		t.Fatalf("Seed() = %d, want 7", g.Seed())
	}
}
