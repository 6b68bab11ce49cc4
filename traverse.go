package seqindex

import "iter"

type frame struct {
	v     int32
	depth int
	next  int
}

// SA returns the suffix array by visiting leaves in symbol order.
func (st *SuffixTree) SA() []int {
	sa, _ := st.traverse(false)
	return sa
}

// SAAndLCP returns the suffix array together with, for every row, the length
// of the longest common prefix with the previous row (0 for row 0).
func (st *SuffixTree) SAAndLCP() ([]int, []int) {
	return st.traverse(true)
}

func (st *SuffixTree) traverse(withLCP bool) ([]int, []int) {
	sa := make([]int, 0, len(st.text))
	var lcp []int
	if withLCP {
		lcp = make([]int, 0, len(st.text))
	}
	// Smallest string depth passed through since the last leaf.
	minSinceLeaf := 0
	stack := []frame{{v: st.root}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		nd := &st.nodes[f.v]
		if nd.isLeaf() {
			sa = append(sa, nd.id)
			if withLCP {
				lcp = append(lcp, minSinceLeaf)
			}
			minSinceLeaf = f.depth
		}
		if f.next < len(nd.out) {
			c := nd.out[f.next].child
			f.next++
			stack = append(stack, frame{v: c, depth: f.depth + st.nodes[c].ln})
			continue
		}
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			minSinceLeaf = min(minSinceLeaf, stack[len(stack)-1].depth)
		}
	}
	return sa, lcp
}

// SuffixesBelow returns the offsets of all suffixes in the subtree at or
// below l, in no particular order.
func (st *SuffixTree) SuffixesBelow(l Locus) []int {
	if st.sanity {
		l.check(st)
	}
	v := l.Above
	if l.Depth > 0 {
		v = l.Below
	}
	var sufs []int
	st.leavesBelow(v, func(off int) {
		sufs = append(sufs, off)
	})
	return sufs
}

func (st *SuffixTree) leavesBelow(v int32, fn func(off int)) {
	stack := []int32{v}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := &st.nodes[v]
		if nd.isLeaf() {
			fn(nd.id)
			continue
		}
		for i := len(nd.out) - 1; i >= 0; i-- {
			stack = append(stack, nd.out[i].child)
		}
	}
}

// mixedLeft marks a subtree whose suffixes are not all preceded by the same
// symbol, or which holds the suffix at offset 0.
const mixedLeft int32 = -1

// markLeft fills st.left bottom-up.
func (st *SuffixTree) markLeft() {
	st.left = make([]int32, len(st.nodes))
	stack := []frame{{v: st.root}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		nd := &st.nodes[f.v]
		if f.next < len(nd.out) {
			c := nd.out[f.next].child
			f.next++
			stack = append(stack, frame{v: c})
			continue
		}
		stack = stack[:len(stack)-1]
		switch {
		case !nd.isLeaf():
			mark := st.left[nd.out[0].child]
			for _, e := range nd.out[1:] {
				if st.left[e.child] != mark {
					mark = mixedLeft
					break
				}
			}
			st.left[f.v] = mark
		case nd.id == 0:
			st.left[f.v] = mixedLeft
		default:
			st.left[f.v] = int32(st.text[nd.id-1])
		}
	}
}

// leavesNotAfter calls fn for every suffix below v not preceded by the
// symbol avoid. A negative avoid lets every suffix through. Subtrees whose
// suffixes all follow avoid are skipped whole.
func (st *SuffixTree) leavesNotAfter(v int32, avoid int32, fn func(off int)) {
	stack := []int32{v}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if avoid >= 0 && st.left[v] == avoid {
			continue
		}
		nd := &st.nodes[v]
		if nd.isLeaf() {
			fn(nd.id)
			continue
		}
		for i := len(nd.out) - 1; i >= 0; i-- {
			stack = append(stack, nd.out[i].child)
		}
	}
}

// Edge is an outgoing edge as seen by NodeInfo.
type Edge struct {
	First Symbol
	Child int32
}

// NodeInfo describes a node for code that renders or inspects the tree.
// The incoming edge is labelled text[EdgeOff:EdgeOff+EdgeLen].
type NodeInfo struct {
	Index      int32
	Parent     int32 // -1 for the root
	SuffixLink int32 // -1 if none
	Leaf       bool
	Suffix     int // leaves only
	EdgeOff    int
	EdgeLen    int
	Children   []Edge
}

// NumNodes returns the number of nodes in the tree.
func (st *SuffixTree) NumNodes() int {
	return len(st.nodes)
}

// Root returns the index of the root node.
func (st *SuffixTree) Root() int32 {
	return st.root
}

// Nodes yields every node in creation order.
func (st *SuffixTree) Nodes() iter.Seq[NodeInfo] {
	return func(yield func(NodeInfo) bool) {
		for v := range st.nodes {
			if !yield(st.Node(int32(v))) {
				return
			}
		}
	}
}

// Node returns the description of node v.
func (st *SuffixTree) Node(v int32) NodeInfo {
	nd := &st.nodes[v]
	info := NodeInfo{
		Index:      v,
		Parent:     nd.parent,
		SuffixLink: nd.slink,
		Leaf:       nd.isLeaf(),
		Suffix:     nd.id,
		EdgeOff:    nd.off,
		EdgeLen:    nd.ln,
		Children:   make([]Edge, len(nd.out)),
	}
	for i, e := range nd.out {
		info.Children[i] = Edge{First: e.c, Child: e.child}
	}
	return info
}

// EdgeLabel returns the label of the edge leading into v.
func (st *SuffixTree) EdgeLabel(v int32) []byte {
	nd := &st.nodes[v]
	return Decode(st.text[nd.off : nd.off+nd.ln])
}
