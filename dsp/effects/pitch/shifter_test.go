package pitch

import (
	"math"
	"testing"
)

func TestClampRatio(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1, 1},
		{0.5, 0.5},
		{2, 2},
		{0.49, 0.5},
		{0.01, 0.5},
		{0, 0.5},
		{-3, 0.5},
		{2.0001, 2},
		{10, 2},
		{math.Inf(1), 2},
		{math.Inf(-1), 0.5},
		{math.NaN(), 1},
	}
	for _, c := range cases {
		if got := ClampRatio(c.in); got != c.want {
			t.Errorf("ClampRatio(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseEngine(t *testing.T) {
	cases := map[string]Engine{
		"psola":         EnginePSOLA,
		" PSOLA ":       EnginePSOLA,
		"td-psola":      EnginePSOLA,
		"vocoder":       EnginePhaseVocoder,
		"Phase-Vocoder": EnginePhaseVocoder,
		"pv":            EnginePhaseVocoder,
	}
	for name, want := range cases {
		got, err := ParseEngine(name)
		if err != nil {
			t.Fatalf("ParseEngine(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseEngine(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseEngine("wsola"); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestNewEngine(t *testing.T) {
	for _, e := range []Engine{EnginePSOLA, EnginePhaseVocoder} {
		s, err := New(e)
		if err != nil {
			t.Fatalf("New(%v): %v", e, err)
		}
		if s.Name() != e.String() {
			t.Fatalf("New(%v).Name() = %q", e, s.Name())
		}
	}
	if _, err := New(Engine(7)); err == nil {
		t.Fatal("expected error for unknown engine")
	}
	if got := Engine(7).String(); got != "engine(7)" {
		t.Fatalf("String() = %q", got)
	}
}
