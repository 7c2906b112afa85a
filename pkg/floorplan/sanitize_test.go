package floorplan

import (
	"math"
	"testing"
)

func TestSanitizeClamp(t *testing.T) {
	item := Item{X1: -5, Y1: 10, X2: 200, Y2: 40, Type: "Sofa", Confidence: 0.9}

	f, clamped, ok := Sanitize(item, 100, 50)

	if !ok {
		t.Fatal("item rejected")
	}

	if clamped {
		t.Error("confidence 0.9 flagged as clamped")
	}

	if f.X1 != 0 || f.Y1 != 10 || f.X2 != 99 || f.Y2 != 40 {
		t.Errorf("box = %+v", f)
	}

	if f.Type != "sofa" || f.Room != "unknown" {
		t.Errorf("type/room = %q/%q", f.Type, f.Room)
	}
}

func TestSanitizeReorder(t *testing.T) {
	item := Item{X1: 80, Y1: 40, X2: 20, Y2: 10, Type: "bed", Confidence: 0.5}

	f, _, ok := Sanitize(item, 100, 50)

	if !ok {
		t.Fatal("item rejected")
	}

	if f.X1 != 20 || f.Y1 != 10 || f.X2 != 80 || f.Y2 != 40 {
		t.Errorf("box = %+v", f)
	}
}

func TestSanitizeDegenerate(t *testing.T) {
	cases := []Item{
		{X1: 30, Y1: 10, X2: 30, Y2: 40},
		{X1: 10, Y1: 25, X2: 40, Y2: 25},
		{X1: 0, Y1: 0, X2: 0, Y2: 0},
	}

	for _, item := range cases {
		if _, _, ok := Sanitize(item, 100, 50); ok {
			t.Errorf("degenerate box kept: %+v", item)
		}
	}
}

func TestSanitizeConfidence(t *testing.T) {
	cases := []struct {
		in      float64
		want    float64
		clamped bool
	}{
		{0.5, 0.5, false},
		{0, 0, false},
		{1, 1, false},
		{-0.2, 0, true},
		{1.7, 1, true},
		{math.NaN(), 0, false},
	}

	for _, tc := range cases {
		f, clamped, ok := Sanitize(Item{X1: 0, Y1: 0, X2: 10, Y2: 10, Confidence: tc.in}, 100, 50)

		if !ok {
			t.Fatalf("item rejected for confidence %v", tc.in)
		}

		if f.Confidence != tc.want || clamped != tc.clamped {
			t.Errorf("confidence %v -> %v (clamped=%v), want %v (clamped=%v)", tc.in, f.Confidence, clamped, tc.want, tc.clamped)
		}
	}
}

func TestSanitizeNonFinite(t *testing.T) {
	item := Item{X1: math.NaN(), Y1: math.Inf(1), X2: 40, Y2: 30}

	f, _, ok := Sanitize(item, 100, 50)

	if !ok {
		t.Fatal("item rejected")
	}

	if f.X1 != 0 || f.Y1 != 0 {
		t.Errorf("non-finite coordinates = %+v", f)
	}
}

func TestSanitizeInvariant(t *testing.T) {
	items := []Item{
		{X1: -1000, Y1: -1000, X2: 1000, Y2: 1000},
		{X1: 99.6, Y1: 0.4, X2: 0.2, Y2: 49.9},
		{X1: 3.5, Y1: 7.2, X2: 88.8, Y2: 44.1},
	}

	for _, item := range items {
		f, _, ok := Sanitize(item, 100, 50)

		if !ok {
			continue
		}

		if f.X1 < 0 || f.X2 >= 100 || f.Y1 < 0 || f.Y2 >= 50 || f.X1 >= f.X2 || f.Y1 >= f.Y2 {
			t.Errorf("invariant violated: %+v -> %+v", item, f)
		}
	}
}
