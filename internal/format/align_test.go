package format

import (
	"math"
	"testing"
)

func TestAlign(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0},
		{1, Alignment},
		{Alignment, Alignment},
		{Alignment + 1, 2 * Alignment},
		{10240, 10240},
	}
	for _, tc := range cases {
		if got := Align(tc.in); got != tc.want {
			t.Errorf("Align(%d) = %d, want %d", tc.in, got, tc.want)
		}
		if got, ok := AlignChecked(tc.in); !ok || got != tc.want {
			t.Errorf("AlignChecked(%d) = %d,%v want %d,true", tc.in, got, ok, tc.want)
		}
	}
}

func TestAlignCheckedRejectsOverflow(t *testing.T) {
	if _, ok := AlignChecked(math.MaxInt); ok {
		t.Fatalf("expected overflow for MaxInt")
	}
	if _, ok := AlignChecked(-1); ok {
		t.Fatalf("expected rejection of negative size")
	}
}

func TestLayoutConstants(t *testing.T) {
	if !IsAligned(HeaderSize) {
		t.Fatalf("HeaderSize %d must be a multiple of Alignment %d", HeaderSize, Alignment)
	}
	if SplitMargin < HeaderSize || SplitMargin < Alignment {
		t.Fatalf("SplitMargin %d must cover both header and alignment", SplitMargin)
	}
	if !IsAligned(MaxCapacity) || MaxCapacity > math.MaxInt32 {
		t.Fatalf("MaxCapacity %d must be aligned and fit in int32", MaxCapacity)
	}
}
