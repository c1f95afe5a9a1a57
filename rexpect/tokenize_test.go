package rexpect

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`prog arg1 arg2`, []string{"prog", "arg1", "arg2"}},
		{`prog 'my text'`, []string{"prog", "'my text'"}},
		{`prog "my text"`, []string{"prog", `"my text"`}},
		{`prog -k=v`, []string{"prog", "-k=v"}},
	}
	for _, c := range cases {
		got := tokenize(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("tokenize(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := tokenize(""); len(got) != 0 {
		t.Fatalf("expected no tokens for empty input, got %#v", got)
	}
	if got := tokenize("   "); len(got) != 0 {
		t.Fatalf("expected no tokens for whitespace-only input, got %#v", got)
	}
}
