package seqindex

import (
	"iter"
	"sort"

	"github.com/viniciusth/rmq"
	"golang.org/x/exp/slices"
)

// SuffixArray holds the rows of a sentinel-terminated text sorted by suffix.
type SuffixArray struct {
	text   []Symbol
	sa     []int
	lcp    []int
	lcpRMQ *rmq.RMQHybridNaive[int]
}

// NewSuffixArray sorts all suffixes of text. The sentinel is appended unless
// text already ends with it.
func NewSuffixArray(text []byte) *SuffixArray {
	syms := NewText(text)
	sa := make([]int, len(syms))
	for i := range sa {
		sa[i] = i
	}
	slices.SortFunc(sa, func(a, b int) int {
		return compareSymbols(syms[a:], syms[b:])
	})
	return newSuffixArrayFromOrder(syms, sa)
}

// SuffixArrayFromTree reads the suffix array off a suffix tree traversal.
func SuffixArrayFromTree(st *SuffixTree) *SuffixArray {
	return newSuffixArrayFromOrder(st.text, st.SA())
}

func newSuffixArrayFromOrder(text []Symbol, sa []int) *SuffixArray {
	if len(sa) != len(text) {
		panic("seqindex: suffix array and text lengths differ")
	}
	return &SuffixArray{text: text, sa: sa}
}

// WithLCP returns a copy of the array that also carries the LCP array and a
// range-minimum structure over it. Searches on the copy run in
// O(|P| + log n) instead of O(|P| log n).
func (s *SuffixArray) WithLCP() *SuffixArray {
	if s.lcp != nil {
		return s
	}
	lcp := buildLCP(s.sa, s.text)
	return &SuffixArray{
		text:   s.text,
		sa:     s.sa,
		lcp:    lcp,
		lcpRMQ: rmq.NewRMQHybridNaive(lcp),
	}
}

// Len returns the number of suffixes, sentinel included.
func (s *SuffixArray) Len() int {
	return len(s.sa)
}

// At returns the text offset of the suffix at row i.
func (s *SuffixArray) At(i int) int {
	return s.sa[i]
}

// Offsets returns the suffix array. It must not be modified.
func (s *SuffixArray) Offsets() []int {
	return s.sa
}

// Text returns the indexed text, sentinel included. It must not be modified.
func (s *SuffixArray) Text() []Symbol {
	return s.text
}

// LCP returns the LCP array or nil when the array was built without it.
func (s *SuffixArray) LCP() []int {
	return s.lcp
}

// LCPOf returns the length of the longest common prefix of the suffixes at
// rows i and j.
func (s *SuffixArray) LCPOf(i, j int) int {
	if i == j {
		return len(s.text) - s.sa[i]
	}
	if i > j {
		i, j = j, i
	}
	if s.lcp == nil {
		return matchLen(s.text[s.sa[i]:], s.text[s.sa[j]:])
	}
	return s.lcp[s.lcpRMQ.Query(i+1, j)]
}

// First returns the lowest row whose suffix has p as a prefix, or the row
// where such a suffix would be inserted. It returns Len() if p sorts after
// every suffix.
func (s *SuffixArray) First(p []byte) int {
	return s.first(Encode(p))
}

func (s *SuffixArray) first(p []Symbol) int {
	n := len(s.sa)
	if s.lcp == nil {
		return sort.Search(n, func(i int) bool {
			return compareSuffix(p, s.text, s.sa[i]) <= 0
		})
	}

	// bestIdx is the visited row sharing the longest prefix (best) with p,
	// bestRes the predicate value found there.
	bestIdx, best, bestRes := -1, 0, false
	expand := func(i int) bool {
		off := s.sa[i]
		for best < len(p) && off+best < len(s.text) && p[best] == s.text[off+best] {
			best++
		}
		bestIdx = i
		if best == len(p) {
			bestRes = true
		} else {
			bestRes = off+best < len(s.text) && p[best] < s.text[off+best]
		}
		return bestRes
	}
	return sort.Search(n, func(i int) bool {
		if bestIdx == -1 {
			return expand(i)
		}
		m := s.LCPOf(bestIdx, i)
		switch {
		case m < best:
			// The suffixes split before p does: row order decides.
			return i > bestIdx
		case m > best:
			return bestRes
		default:
			return expand(i)
		}
	})
}

// Range returns the half-open range of rows whose suffixes have p as a
// prefix. The range is empty when p does not occur.
func (s *SuffixArray) Range(p []byte) (int, int) {
	return s.rangeOf(Encode(p))
}

func (s *SuffixArray) rangeOf(p []Symbol) (int, int) {
	if len(p) == 0 {
		return 0, len(s.sa)
	}
	succ := slices.Clone(p)
	succ[len(succ)-1]++
	return s.first(p), s.first(succ)
}

// HasSubstring reports whether p occurs in the text.
func (s *SuffixArray) HasSubstring(p []byte) bool {
	l, r := s.Range(p)
	return r > l
}

// HasSuffix reports whether p is a suffix of the text.
func (s *SuffixArray) HasSuffix(p []byte) bool {
	l, r := s.Range(p)
	return r > l && s.sa[l]+len(p) == len(s.text)-1
}

// Occurrences returns the sorted offsets at which p occurs.
func (s *SuffixArray) Occurrences(p []byte) []int {
	l, r := s.Range(p)
	if l >= r {
		return nil
	}
	occ := slices.Clone(s.sa[l:r])
	slices.Sort(occ)
	return occ
}

// ToBWT returns the Burrows-Wheeler transform of the text and the row
// holding the sentinel.
func (s *SuffixArray) ToBWT() ([]Symbol, int) {
	bwt := make([]Symbol, len(s.sa))
	dollarRow := -1
	for i, off := range s.sa {
		if off == 0 {
			dollarRow = i
			bwt[i] = Sentinel
		} else {
			bwt[i] = s.text[off-1]
		}
	}
	if dollarRow < 0 {
		panic("seqindex: suffix array has no row for offset 0")
	}
	return bwt, dollarRow
}

// SampleByRank yields (row, offset) for every suffix whose offset is a
// multiple of interval, in row order.
func (s *SuffixArray) SampleByRank(interval int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for row, off := range s.sa {
			if off%interval != 0 {
				continue
			}
			if !yield(row, off) {
				return
			}
		}
	}
}

// compareSymbols orders two suffixes. Suffixes of the same text always
// differ at or before the sentinel.
func compareSymbols(a, b []Symbol) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}
