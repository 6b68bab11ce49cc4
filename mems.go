package seqindex

import (
	"cmp"

	"golang.org/x/exp/slices"
)

// MEM is a maximal exact match: pattern[PatternOff:PatternOff+Len] equals
// text[TextOff:TextOff+Len] and the match cannot be extended either way.
type MEM struct {
	TextOff    int
	PatternOff int
	Len        int
}

func compareMEM(a, b MEM) int {
	if c := cmp.Compare(a.TextOff, b.TextOff); c != 0 {
		return c
	}
	if c := cmp.Compare(a.PatternOff, b.PatternOff); c != 0 {
		return c
	}
	return cmp.Compare(a.Len, b.Len)
}

// MEMs returns all maximal exact matches between pattern and the text that
// are at least minLen long, sorted by text offset, then pattern offset.
//
// For every pattern start the walk holds the longest prefix of the rest of
// the pattern that occurs in the text. Moving to the next start drops one
// symbol through a suffix link and matches forward from there. Matches
// starting at a pattern position end either at that locus or where a branch
// leaves its path, so only branching ancestors at least minLen deep are
// visited.
func (st *SuffixTree) MEMs(pattern []byte, minLen int) []MEM {
	p := Encode(pattern)
	minLen = max(minLen, 1)
	var mems []MEM

	l := Locus{Above: st.root, Below: noNode}
	depth := 0
	for start := range p {
		if depth > 0 {
			l = st.fallback(l)
			depth--
		}
		for start+depth < len(p) {
			next, ok := st.step(l, p[start+depth])
			if !ok {
				break
			}
			l = next
			depth++
		}
		if depth < minLen {
			continue
		}

		avoid := mixedLeft
		if start > 0 {
			avoid = int32(p[start-1])
		}
		emit := func(v int32, n int) {
			st.leavesNotAfter(v, avoid, func(off int) {
				mems = append(mems, MEM{TextOff: off, PatternOff: start, Len: n})
			})
		}

		from, u := l.Above, st.nodes[l.Above].parent
		if l.Depth > 0 {
			from, u = l.Below, l.Above
		}
		emit(from, depth)
		for u != noNode && st.nodes[u].depth >= minLen {
			for _, e := range st.nodes[u].out {
				if e.child != from {
					emit(e.child, st.nodes[u].depth)
				}
			}
			from, u = u, st.nodes[u].parent
		}
	}

	slices.SortFunc(mems, compareMEM)
	return mems
}

// MatchingStatistics returns, for every i, the length of the longest suffix
// of pattern[:i+1] that occurs in the text.
func (st *SuffixTree) MatchingStatistics(pattern []byte) []int {
	depths := make([]int, len(pattern))
	l := Locus{Above: st.root, Below: noNode}
	depth := 0
	for i, b := range pattern {
		l, depth = st.extend(l, depth, SymbolOf(b))
		depths[i] = depth
	}
	return depths
}

// step moves l down by c if the tree continues that way.
func (st *SuffixTree) step(l Locus, c Symbol) (Locus, bool) {
	if l.Depth == 0 {
		ch := st.child(l.Above, c)
		if ch == noNode {
			return l, false
		}
		if st.nodes[ch].ln == 1 {
			return Locus{Above: ch, Below: noNode}, true
		}
		return Locus{Above: l.Above, Below: ch, Sel: c, Depth: 1}, true
	}
	nd := &st.nodes[l.Below]
	if st.text[nd.off+l.Depth] != c {
		return l, false
	}
	if l.Depth+1 == nd.ln {
		return Locus{Above: l.Below, Below: noNode}, true
	}
	l.Depth++
	return l, true
}

// extend moves the match at l, depth symbols deep, down by c. When c cannot
// follow, shorter contexts are tried along the suffix links until one can or
// the root is reached.
func (st *SuffixTree) extend(l Locus, depth int, c Symbol) (Locus, int) {
	for {
		if next, ok := st.step(l, c); ok {
			return next, depth + 1
		}
		if l.Depth == 0 && l.Above == st.root {
			return l, 0
		}
		l = st.fallback(l)
		depth--
	}
}

// fallback drops the first symbol of the context at l.
func (st *SuffixTree) fallback(l Locus) Locus {
	if l.Depth == 0 {
		return st.skipCount(l.Above, 0, 0)
	}
	return st.skipCount(l.Above, l.Depth, st.nodes[l.Below].off)
}
