package rez

import (
	"bytes"
	"testing"
	"unicode/utf8"
)

func TestDecodeLegacyText_AllByteValues(t *testing.T) {
	t.Parallel()

	input := make([]byte, 256)
	for i := range input {
		input[i] = byte(i)
	}

	decoded := DecodeLegacyText(input)
	if got := utf8.RuneCountInString(decoded); got != len(input) {
		t.Fatalf("rune count=%d, want %d", got, len(input))
	}

	i := 0
	for _, r := range decoded {
		if r != rune(i) {
			t.Fatalf("rune at %d = %U, want %U", i, r, rune(i))
		}
		i++
	}
}

func TestDecodeLegacyText_Empty(t *testing.T) {
	t.Parallel()

	if got := DecodeLegacyText(nil); got != "" {
		t.Fatalf("DecodeLegacyText(nil)=%q, want empty", got)
	}
}

func TestTrimHelpers(t *testing.T) {
	t.Parallel()

	if got := trimTrailingSpaces([]byte("abc   ")); !bytes.Equal(got, []byte("abc")) {
		t.Errorf("trimTrailingSpaces=%q", got)
	}
	if got := trimTrailingSpaces([]byte("   ")); len(got) != 0 {
		t.Errorf("trimTrailingSpaces all spaces=%q", got)
	}
	if got := trimTrailingZeros([]byte{'4', '2', 0, 0}); !bytes.Equal(got, []byte("42")) {
		t.Errorf("trimTrailingZeros=%q", got)
	}
	if got := trimLeadingZeros([]byte{0, 0, 'g', 'i', 'f'}); !bytes.Equal(got, []byte("gif")) {
		t.Errorf("trimLeadingZeros=%q", got)
	}
	if got := trimLeadingZeros([]byte{0, 0}); len(got) != 0 {
		t.Errorf("trimLeadingZeros all zeros=%q", got)
	}
}
