package seqindex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "$"},
		{"$", "$"},
		{"acgt", "acgt$"},
		{"acgt$", "acgt$"},
		{"a$c", "a$c$"},
		{"ac$$", "ac$$"},
	}
	for _, tc := range tests {
		got := NewText([]byte(tc.in))
		if string(Decode(got)) != tc.want {
			t.Errorf("NewText(%q) = %q, want %q", tc.in, Decode(got), tc.want)
		}
		if got[len(got)-1] != Sentinel {
			t.Errorf("NewText(%q) does not end with the sentinel", tc.in)
		}
		for _, c := range got[:len(got)-1] {
			if c == Sentinel {
				t.Errorf("NewText(%q) has an interior sentinel", tc.in)
			}
		}
	}
}

func TestSymbolOrder(t *testing.T) {
	if SymbolOf(0) <= Sentinel {
		t.Error("byte 0 does not sort above the sentinel")
	}
	if SymbolOf('$') <= Sentinel {
		t.Error("byte '$' does not sort above the sentinel")
	}
	for b := 0; b < 255; b++ {
		if SymbolOf(byte(b)) >= SymbolOf(byte(b+1)) {
			t.Fatalf("symbol order broken at byte %d", b)
		}
	}
}

func TestAlphabet(t *testing.T) {
	a := newAlphabet(NewText([]byte("gattaca")))
	want := []Symbol{Sentinel, SymbolOf('a'), SymbolOf('c'), SymbolOf('g'), SymbolOf('t')}
	if diff := cmp.Diff(want, a.Symbols()); diff != "" {
		t.Errorf("Symbols() mismatch (-want +got):\n%s", diff)
	}
	for i, c := range want {
		if got := a.Index(c); got != i {
			t.Errorf("Index(%q) = %d, want %d", c.Byte(), got, i)
		}
	}
	if got := a.Index(SymbolOf('x')); got != -1 {
		t.Errorf("Index(x) = %d, want -1", got)
	}
	if got := a.Index(Symbol(SymbolMax)); got != -1 {
		t.Errorf("Index(SymbolMax) = %d, want -1", got)
	}
}
