package seqindex

// Kasai's algorithm for building the LCP array in O(n) time.
// lcp[i] is the longest common prefix of the suffixes at rows i-1 and i,
// lcp[0] is 0.
func buildLCP(sa []int, text []Symbol) []int {
	rank := make([]int, len(sa))
	for i := range sa {
		rank[sa[i]] = i
	}

	lcp := make([]int, len(sa))
	l := 0
	for i := range sa {
		if rank[i] == 0 {
			l = 0
			continue
		}
		j := sa[rank[i]-1]
		for i+l < len(text) && j+l < len(text) && text[i+l] == text[j+l] {
			l++
		}
		lcp[rank[i]] = l
		if l > 0 {
			l--
		}
	}

	return lcp
}
