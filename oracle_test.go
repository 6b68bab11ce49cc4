package seqindex

import (
	"math/rand"
	"sort"
)

// naiveMatches returns every offset where p occurs in t.
func naiveMatches(p, t string) []int {
	var res []int
	for i := 0; i+len(p) <= len(t); i++ {
		if t[i:i+len(p)] == p {
			res = append(res, i)
		}
	}
	return res
}

// naiveMEMs slides p along t and reports every maximal run of matching
// characters on each diagonal that is at least l long.
func naiveMEMs(p, t string, l int) []MEM {
	var mems []MEM
	for d := -len(p) + 1; d < len(t); d++ {
		// Pattern offset j lines up with text offset j+d.
		run := 0
		for j := max(0, -d); j <= len(p); j++ {
			i := j + d
			if j < len(p) && i < len(t) && p[j] == t[i] {
				run++
				continue
			}
			if run >= l {
				mems = append(mems, MEM{TextOff: i - run, PatternOff: j - run, Len: run})
			}
			run = 0
			if i >= len(t) {
				break
			}
		}
	}
	sort.Slice(mems, func(a, b int) bool {
		return compareMEM(mems[a], mems[b]) < 0
	})
	return mems
}

// naiveLCP returns the LCP between consecutive rows of sa.
func naiveLCP(text []Symbol, sa []int) []int {
	lcp := make([]int, len(sa))
	for i := 1; i < len(sa); i++ {
		lcp[i] = matchLen(text[sa[i-1]:], text[sa[i]:])
	}
	return lcp
}

func randomString(r *rand.Rand, alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(b)
}
