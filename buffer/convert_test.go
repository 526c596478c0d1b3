package buffer

import "testing"

const grin = "\U0001F600"

func TestBuffer_UTF16Conversion(t *testing.T) {
	b := New("a"+PlaceholderText+grin+"b", Options{})
	strict := ConvertPolicy{ClampMode: OffsetError}
	clamp := ConvertPolicy{ClampMode: OffsetClamp}

	cases := []struct {
		off, units int
	}{
		{0, 0},
		{1, 1},
		{4, 2},
		{8, 4},
		{9, 5},
	}
	for _, tc := range cases {
		got, ok := b.UTF16FromOffset(tc.off, strict)
		if !ok || got != tc.units {
			t.Fatalf("UTF16FromOffset(%d)=%d,%v, want %d", tc.off, got, ok, tc.units)
		}
		back, ok := b.OffsetFromUTF16(tc.units, strict)
		if !ok || back != tc.off {
			t.Fatalf("OffsetFromUTF16(%d)=%d,%v, want %d", tc.units, back, ok, tc.off)
		}
	}

	if _, ok := b.OffsetFromUTF16(3, strict); ok {
		t.Fatalf("expected mid-surrogate offset to be rejected")
	}
	if got, ok := b.OffsetFromUTF16(3, clamp); !ok || got != 8 {
		t.Fatalf("clamped mid-surrogate=%d,%v, want 8", got, ok)
	}
	if _, ok := b.UTF16FromOffset(2, strict); ok {
		t.Fatalf("expected offset inside placeholder to be rejected")
	}
	if got, ok := b.OffsetFromUTF16(99, clamp); !ok || got != 9 {
		t.Fatalf("clamped past end=%d,%v, want 9", got, ok)
	}
}

func TestBuffer_CharIndexConversion(t *testing.T) {
	b := New("a"+PlaceholderText+grin+"b", Options{})
	strict := ConvertPolicy{ClampMode: OffsetError}
	clamp := ConvertPolicy{ClampMode: OffsetClamp}

	if got, ok := b.CharIndexFromOffset(8, strict); !ok || got != 3 {
		t.Fatalf("CharIndexFromOffset(8)=%d,%v, want 3", got, ok)
	}
	if got, ok := b.OffsetFromCharIndex(3, strict); !ok || got != 8 {
		t.Fatalf("OffsetFromCharIndex(3)=%d,%v, want 8", got, ok)
	}
	if got, ok := b.OffsetFromCharIndex(4, strict); !ok || got != 9 {
		t.Fatalf("OffsetFromCharIndex(4)=%d,%v, want 9", got, ok)
	}
	if _, ok := b.OffsetFromCharIndex(5, strict); ok {
		t.Fatalf("expected out of range index to be rejected")
	}
	if got, ok := b.OffsetFromCharIndex(5, clamp); !ok || got != 9 {
		t.Fatalf("clamped index=%d,%v, want 9", got, ok)
	}
	if _, ok := b.CharIndexFromOffset(2, strict); ok {
		t.Fatalf("expected offset inside placeholder to be rejected")
	}
	if got, ok := b.CharIndexFromOffset(2, clamp); !ok || got != 1 {
		t.Fatalf("clamped offset index=%d,%v, want 1", got, ok)
	}
}
