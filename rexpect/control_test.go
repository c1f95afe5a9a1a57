package rexpect

import "testing"

func TestControlCodeBijectionLowercase(t *testing.T) {
	for c := byte('a'); c <= 'z'; c++ {
		b, ok := controlCode(rune(c))
		if !ok {
			t.Fatalf("expected %q to map to a control code", c)
		}
		want := c - 'a' + 1
		if b != want {
			t.Fatalf("controlCode(%q) = %d, want %d", c, b, want)
		}
	}
}

func TestControlCodeBijectionUppercase(t *testing.T) {
	for c := byte('A'); c <= 'Z'; c++ {
		b, ok := controlCode(rune(c))
		if !ok {
			t.Fatalf("expected %q to map to a control code", c)
		}
		want := c - 'A' + 1
		if b != want {
			t.Fatalf("controlCode(%q) = %d, want %d", c, b, want)
		}
	}
}

func TestControlCodeBrackets(t *testing.T) {
	cases := map[rune]byte{'[': 27, '\\': 28, ']': 29, '^': 30, '_': 31}
	for c, want := range cases {
		b, ok := controlCode(c)
		if !ok || b != want {
			t.Fatalf("controlCode(%q) = (%d, %v), want (%d, true)", c, b, ok, want)
		}
	}
}

func TestControlCodeOutOfRange(t *testing.T) {
	for _, c := range []rune{'0', ' ', '!', '~'} {
		if _, ok := controlCode(c); ok {
			t.Fatalf("expected %q to be rejected", c)
		}
	}
}
