package seqindex

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func suffixArrays(s string) map[string]*SuffixArray {
	sa := NewSuffixArray([]byte(s))
	return map[string]*SuffixArray{
		"sort":     sa,
		"sort_lcp": sa.WithLCP(),
		"tree":     SuffixArrayFromTree(NewSuffixTree([]byte(s))),
	}
}

func TestSuffixArraySearch(t *testing.T) {
	for name, sa := range suffixArrays("abaaba") {
		t.Run(name, func(t *testing.T) {
			if got := sa.First([]byte("a")); got != 1 {
				t.Errorf("First(a) = %d, want 1", got)
			}
			if got := sa.First([]byte("b")); got != 5 {
				t.Errorf("First(b) = %d, want 5", got)
			}
			if got := sa.First([]byte("z")); got != sa.Len() {
				t.Errorf("First(z) = %d, want %d", got, sa.Len())
			}

			ranges := []struct {
				p    string
				l, r int
			}{
				{"a", 1, 5},
				{"b", 5, 7},
				{"ba", 5, 7},
				{"baaba", 6, 7},
				{"", 0, 7},
			}
			for _, tc := range ranges {
				l, r := sa.Range([]byte(tc.p))
				if l != tc.l || r != tc.r {
					t.Errorf("Range(%q) = [%d,%d), want [%d,%d)", tc.p, l, r, tc.l, tc.r)
				}
			}

			for _, p := range []string{"abaaba", "baaba", "aaba", "abaab", "abaa"} {
				if !sa.HasSubstring([]byte(p)) {
					t.Errorf("HasSubstring(%q) = false", p)
				}
			}
			for _, p := range []string{"aabb", "abc", "abaabaa", "ababa", "z", "zzzzzz"} {
				if sa.HasSubstring([]byte(p)) {
					t.Errorf("HasSubstring(%q) = true", p)
				}
			}
			for _, p := range []string{"aba", "ba", "a"} {
				if !sa.HasSuffix([]byte(p)) {
					t.Errorf("HasSuffix(%q) = false", p)
				}
			}
			if sa.HasSuffix([]byte("ab")) {
				t.Error("HasSuffix(ab) = true")
			}
		})
	}
}

func TestSuffixArrayRepeats(t *testing.T) {
	for name, sa := range suffixArrays("acgtacgtacgtacgt") {
		t.Run(name, func(t *testing.T) {
			if sa.HasSuffix([]byte("ab")) {
				t.Error("HasSuffix(ab) = true")
			}
			if sa.HasSubstring([]byte("aa")) || sa.HasSubstring([]byte("zz")) {
				t.Error("found absent substring")
			}
			if !sa.HasSuffix([]byte("acgt")) {
				t.Error("HasSuffix(acgt) = false")
			}
			want := []int{0, 4, 8, 12}
			if diff := cmp.Diff(want, sa.Occurrences([]byte("acgt"))); diff != "" {
				t.Errorf("Occurrences(acgt) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSentinelAppendedOnce(t *testing.T) {
	a := NewSuffixArray([]byte("abaaba"))
	b := NewSuffixArray([]byte("abaaba$"))
	if diff := cmp.Diff(a.Offsets(), b.Offsets()); diff != "" {
		t.Errorf("suffix arrays differ (-plain +terminated):\n%s", diff)
	}
	if a.Len() != 7 {
		t.Errorf("Len() = %d, want 7", a.Len())
	}
}

func TestToBWT(t *testing.T) {
	sa := NewSuffixArray([]byte("abaaba"))
	bwt, dollarRow := sa.ToBWT()
	if got := string(Decode(bwt)); got != "abba$aa" {
		t.Errorf("BWT = %q, want %q", got, "abba$aa")
	}
	if dollarRow != 4 {
		t.Errorf("dollarRow = %d, want 4", dollarRow)
	}
}

func TestSampleByRank(t *testing.T) {
	sa := NewSuffixArray([]byte("abaaba"))
	got := map[int]int{}
	for row, off := range sa.SampleByRank(2) {
		got[row] = off
	}
	// SA = [6 5 2 3 0 4 1]
	want := map[int]int{0: 6, 2: 2, 4: 0, 5: 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SampleByRank(2) mismatch (-want +got):\n%s", diff)
	}

	rows := 0
	for range sa.SampleByRank(1) {
		rows++
		if rows == 3 {
			break
		}
	}
	if rows != 3 {
		t.Errorf("stopped after %d rows, want 3", rows)
	}
}

func TestLCPArray(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for trial := 0; trial < 20; trial++ {
		s := randomString(r, "ACGT", 1+r.Intn(200))
		sa := NewSuffixArray([]byte(s)).WithLCP()
		want := naiveLCP(sa.Text(), sa.Offsets())
		if diff := cmp.Diff(want, sa.LCP()); diff != "" {
			t.Fatalf("LCP of %q mismatch (-want +got):\n%s", s, diff)
		}
		for k := 0; k < 20; k++ {
			i, j := r.Intn(sa.Len()), r.Intn(sa.Len())
			want := matchLen(sa.Text()[sa.At(i):], sa.Text()[sa.At(j):])
			if got := sa.LCPOf(i, j); got != want {
				t.Fatalf("LCPOf(%d, %d) = %d, want %d", i, j, got, want)
			}
		}
	}
}

func FuzzSuffixArrayRange(f *testing.F) {
	f.Add([]byte("abaaba"), []byte("ab"))
	f.Add([]byte("mississippi"), []byte("ssi"))
	f.Add([]byte("\xff\xff\x00"), []byte("\xff"))

	f.Fuzz(func(t *testing.T, text, pat []byte) {
		if len(text) > 1000 || len(pat) > 50 {
			return
		}
		plain := NewSuffixArray(text)
		withLCP := plain.WithLCP()
		l1, r1 := plain.Range(pat)
		l2, r2 := withLCP.Range(pat)
		if l1 != l2 || r1 != r2 {
			t.Fatalf("Range(%q) = [%d,%d) without LCP, [%d,%d) with LCP", pat, l1, r1, l2, r2)
		}
		// A trailing '$' is the sentinel, not part of the text.
		body := strings.TrimSuffix(string(text), "$")
		want := naiveMatches(string(pat), body)
		got := plain.Occurrences(pat)
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("Occurrences(%q) in %q mismatch (-want +got):\n%s", pat, body, diff)
		}
	})
}
