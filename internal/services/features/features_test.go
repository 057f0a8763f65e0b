package features

import (
	"math"
	"testing"
)

func TestSlopeRising(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	if got := Slope(xs); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected slope 1, got %v", got)
	}
}

func TestSlopeSkipsNaN(t *testing.T) {
	xs := []float64{math.NaN(), math.NaN(), 2, 4, 6}
	if got := Slope(xs); got <= 0 {
		t.Fatalf("expected positive slope, got %v", got)
	}
}

func TestSlopeFlat(t *testing.T) {
	xs := []float64{3, 3, 3, 3}
	if got := Slope(xs); got != 0 {
		t.Fatalf("expected zero slope, got %v", got)
	}
}

func TestDefinedLen(t *testing.T) {
	xs := []float64{math.NaN(), math.NaN(), 1, 2, 3}
	if got := DefinedLen(xs); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := DefinedLen([]float64{math.NaN()}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestPeaksProminence(t *testing.T) {
	// Two clear peaks at 2 and 6, small wiggle at 4 rejected by prominence.
	xs := []float64{1, 5, 10, 5, 5.2, 4, 12, 3}
	got := Peaks(xs, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected peaks %v", got)
	}
}

func TestTroughs(t *testing.T) {
	xs := []float64{10, 2, 10, 9, 1, 10}
	got := Troughs(xs, 3)
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("unexpected troughs %v", got)
	}
}

func TestRangeIgnoresNaN(t *testing.T) {
	xs := []float64{math.NaN(), 2, 8, 5}
	if got := Range(xs); got != 6 {
		t.Fatalf("expected 6, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(120, 0, 100) != 100 || Clamp(-5, 0, 100) != 0 || Clamp(42, 0, 100) != 42 {
		t.Fatalf("clamp misbehaved")
	}
}
