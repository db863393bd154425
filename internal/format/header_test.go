package format

import (
	"errors"
	"testing"
)

func TestEncodeDecodeHeader(t *testing.T) {
	b := make([]byte, 64)
	want := Header{Size: 48, Flags: FlagOccupied, Prev: NoLink, Next: 48}
	if err := EncodeHeader(b, 0, want); err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	got, err := DecodeHeader(b, 0)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
	if !got.Occupied() {
		t.Fatalf("expected occupied header")
	}
	if got.PayloadSize() != 48-HeaderSize {
		t.Fatalf("PayloadSize = %d, want %d", got.PayloadSize(), 48-HeaderSize)
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	b := make([]byte, HeaderSize+4)
	if _, err := DecodeHeader(b, 8); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if err := EncodeHeader(b, -1, Header{}); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for negative offset, got %v", err)
	}
}

func TestHeaderCheck(t *testing.T) {
	const capacity = 8 * Alignment * 4

	end, err := Header{Size: 2 * HeaderSize}.Check(0, capacity)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if end != 2*HeaderSize {
		t.Fatalf("end = %d, want %d", end, 2*HeaderSize)
	}

	cases := []struct {
		name string
		h    Header
		off  int
		want error
	}{
		{"zero size", Header{Size: 0}, 0, ErrBadSize},
		{"below header", Header{Size: HeaderSize - 1}, 0, ErrBadSize},
		{"misaligned size", Header{Size: HeaderSize + 1}, 0, ErrMisaligned},
		{"misaligned offset", Header{Size: HeaderSize}, 1, ErrMisaligned},
		{"past end", Header{Size: capacity}, Alignment, ErrBadSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.h.Check(tc.off, capacity); !errors.Is(err, tc.want) {
				t.Fatalf("Check(%+v, %d) = %v, want %v", tc.h, tc.off, err, tc.want)
			}
		})
	}
}
