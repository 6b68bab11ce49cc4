package seqindex

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var ErrCorruptTree = errors.New("seqindex: suffix tree invariant violated")

const noNode int32 = -1

type edge struct {
	c     Symbol
	child int32
}

// node describes the edge leading into it as text[off:off+ln].
type node struct {
	off, ln int
	depth   int // string depth, fixed once the node exists
	parent  int32
	slink   int32
	id      int // suffix offset, leaves only
	out     []edge
}

func (n *node) isLeaf() bool {
	return len(n.out) == 0
}

// SuffixTree is a compressed trie of all suffixes of a sentinel-terminated
// text, built with Ukkonen's algorithm. Nodes live in an arena and refer to
// each other by index.
type SuffixTree struct {
	text  []Symbol
	nodes []node
	// left[v] is the symbol preceding every suffix below v, or mixedLeft.
	left   []int32
	root   int32
	sanity bool
}

type TreeBuilder struct {
	text   []byte
	sanity bool
}

func NewTreeBuilder(text []byte) *TreeBuilder {
	return &TreeBuilder{text: text}
}

// Sanity makes construction re-locate every suffix after each phase and
// validate the finished tree. A violation panics.
func (b *TreeBuilder) Sanity() *TreeBuilder {
	b.sanity = true
	return b
}

func (b *TreeBuilder) Build() *SuffixTree {
	st := &SuffixTree{
		text:   NewText(b.text),
		sanity: b.sanity,
	}
	st.ukkonen()
	st.markLeft()
	if st.sanity {
		if err := st.Validate(); err != nil {
			panic(err)
		}
	}
	return st
}

// NewSuffixTree builds the suffix tree of text. The sentinel is appended
// unless text already ends with it.
func NewSuffixTree(text []byte) *SuffixTree {
	return NewTreeBuilder(text).Build()
}

// Text returns the indexed text, sentinel included. It must not be modified.
func (st *SuffixTree) Text() []Symbol {
	return st.text
}

// Len returns the text length, sentinel included.
func (st *SuffixTree) Len() int {
	return len(st.text)
}

func (st *SuffixTree) newNode(off, ln int, parent int32, id int) int32 {
	depth := 0
	if parent != noNode {
		depth = st.nodes[parent].depth + ln
	}
	st.nodes = append(st.nodes, node{
		off:    off,
		ln:     ln,
		depth:  depth,
		parent: parent,
		slink:  noNode,
		id:     id,
	})
	return int32(len(st.nodes) - 1)
}

func edgeCmp(e edge, c Symbol) int {
	return int(e.c) - int(c)
}

func (st *SuffixTree) child(v int32, c Symbol) int32 {
	out := st.nodes[v].out
	if i, ok := slices.BinarySearchFunc(out, c, edgeCmp); ok {
		return out[i].child
	}
	return noNode
}

func (st *SuffixTree) setChild(v int32, c Symbol, child int32) {
	out := st.nodes[v].out
	i, ok := slices.BinarySearchFunc(out, c, edgeCmp)
	if ok {
		out[i].child = child
		return
	}
	st.nodes[v].out = slices.Insert(out, i, edge{c: c, child: child})
}

// splitEdge inserts a node depth symbols down the edge leaving v with c and
// returns it.
func (st *SuffixTree) splitEdge(v int32, c Symbol, depth int) int32 {
	child := st.child(v, c)
	if depth <= 0 || child == noNode || depth >= st.nodes[child].ln {
		panic(fmt.Sprintf("seqindex: bad split at node %d, depth %d", v, depth))
	}
	mid := st.newNode(st.nodes[child].off, depth, v, -1)
	st.setChild(v, c, mid)
	ch := &st.nodes[child]
	ch.parent = mid
	ch.off += depth
	ch.ln -= depth
	st.setChild(mid, st.text[ch.off], child)
	return mid
}

func (st *SuffixTree) ukkonen() {
	s := st.text
	n := len(s)
	st.nodes = make([]node, 0, 2*n)
	st.root = st.newNode(0, 0, noNode, -1)
	bottom := st.newNode(0, n, st.root, 0)
	st.setChild(st.root, s[0], bottom)

	// Extensions below skipExt already hold in every later phase.
	skipExt := 1
	lastLeaf := bottom
	for i := 0; i < n-1; i++ {
		c := s[i+1]
		// pending is the internal node created by the previous extension
		// that still needs its suffix link.
		pending := noNode
		lastN := st.nodes[lastLeaf].parent
		lastDepth := i + 1 - st.nodes[lastLeaf].off
		lastOff := st.nodes[lastLeaf].off
		for j := skipExt; j <= i+1; j++ {
			l := st.skipCount(lastN, lastDepth, lastOff)
			if l.Depth == 0 {
				if pending != noNode {
					st.nodes[pending].slink = l.Above
					pending = noNode
				}
				if st.child(l.Above, c) != noNode {
					break // rule 3
				}
				// Rule 2: new leaf off an existing node.
				lastLeaf = st.newNode(i+1, n-i-1, l.Above, j)
				st.setChild(l.Above, c, lastLeaf)
				lastN, lastDepth, lastOff = l.Above, 0, i+1
			} else {
				below := &st.nodes[l.Below]
				if s[below.off+l.Depth] == c {
					if pending != noNode {
						panic("seqindex: unlinked node at rule 3 mid-edge")
					}
					break // rule 3
				}
				// Rule 2: split the edge and hang a leaf off the middle.
				mid := st.splitEdge(l.Above, l.Sel, l.Depth)
				lastLeaf = st.newNode(i+1, n-i-1, mid, j)
				st.setChild(mid, c, lastLeaf)
				if pending != noNode {
					st.nodes[pending].slink = mid
				}
				pending = mid
				lastN, lastDepth, lastOff = mid, 0, i+1
			}
			skipExt = max(skipExt, j+1)
		}
		if pending != noNode {
			panic(fmt.Sprintf("seqindex: phase %d ended with an unlinked node", i))
		}
		if st.sanity {
			for j := 0; j <= i+1; j++ {
				if _, ok := st.fromRoot(s[j : i+2]); !ok {
					panic(fmt.Sprintf("seqindex: phase %d lost suffix %d", i, j))
				}
			}
		}
	}
}

// skipCount takes the locus d symbols below v, spelled by text[off:off+d],
// and returns the locus of the same path with its first symbol removed.
func (st *SuffixTree) skipCount(v int32, d, off int) Locus {
	if v != st.root && st.nodes[v].slink == noNode {
		off = st.nodes[v].off
		d += st.nodes[v].ln
		v = st.nodes[v].parent
	}
	var l Locus
	if v == st.root {
		d--
		off++
		if d <= 0 {
			l = Locus{Above: st.root, Below: noNode}
		} else {
			l = st.descend(st.root, off, d)
		}
	} else {
		sv := st.nodes[v].slink
		if d == 0 {
			l = Locus{Above: sv, Below: noNode}
		} else {
			l = st.descend(sv, off, d)
		}
	}
	if st.sanity {
		l.check(st)
	}
	return l
}

// descend walks d symbols of text[off:] down from v, hopping whole edges.
// The path must exist.
func (st *SuffixTree) descend(v int32, off, d int) Locus {
	cur := v
	for {
		c := st.text[off]
		next := st.child(cur, c)
		if next == noNode {
			panic(fmt.Sprintf("seqindex: no edge for symbol %d below node %d", c, cur))
		}
		ln := st.nodes[next].ln
		switch {
		case ln < d:
			d -= ln
			off += ln
			cur = next
		case ln == d:
			return Locus{Above: next, Below: noNode}
		default:
			return Locus{Above: cur, Below: next, Sel: c, Depth: d}
		}
	}
}

// fromRoot follows q down from the root one symbol at a time. It reports
// false if q leaves the tree.
func (st *SuffixTree) fromRoot(q []Symbol) (Locus, bool) {
	cur := st.root
	i := 0
	for i < len(q) {
		c := q[i]
		ch := st.child(cur, c)
		if ch == noNode {
			return Locus{}, false
		}
		nd := &st.nodes[ch]
		i++
		j := 1
		for j < nd.ln && i < len(q) {
			if q[i] != st.text[nd.off+j] {
				return Locus{}, false
			}
			i++
			j++
		}
		if j < nd.ln {
			return Locus{Above: cur, Below: ch, Sel: c, Depth: j}, true
		}
		cur = ch
	}
	return Locus{Above: cur, Below: noNode}, true
}

// Find returns the locus spelled by p from the root.
func (st *SuffixTree) Find(p []byte) (Locus, bool) {
	return st.fromRoot(Encode(p))
}

// HasSubstring reports whether p occurs in the text.
func (st *SuffixTree) HasSubstring(p []byte) bool {
	_, ok := st.fromRoot(Encode(p))
	return ok
}

// HasSuffix reports whether p is a suffix of the text.
func (st *SuffixTree) HasSuffix(p []byte) bool {
	l, ok := st.fromRoot(Encode(p))
	if !ok {
		return false
	}
	if l.Depth == 0 {
		return st.child(l.Above, Sentinel) != noNode
	}
	return st.text[st.nodes[l.Below].off+l.Depth] == Sentinel
}

// Occurrences returns the sorted offsets at which p occurs.
func (st *SuffixTree) Occurrences(p []byte) []int {
	l, ok := st.fromRoot(Encode(p))
	if !ok {
		return nil
	}
	occ := st.SuffixesBelow(l)
	slices.Sort(occ)
	return occ
}

// Validate checks the shape of the tree: every node is exactly one of root,
// leaf or branching internal node with a suffix link, there is one leaf per
// suffix and every suffix spells its way to its own leaf.
func (st *SuffixTree) Validate() error {
	leaves := 0
	for v := range st.nodes {
		nd := &st.nodes[v]
		isRoot := int32(v) == st.root
		switch {
		case isRoot:
			if nd.ln != 0 {
				return fmt.Errorf("%w: root edge has length %d", ErrCorruptTree, nd.ln)
			}
		case nd.isLeaf():
			leaves++
		case len(nd.out) < 2:
			return fmt.Errorf("%w: internal node %d has %d children", ErrCorruptTree, v, len(nd.out))
		case nd.slink == noNode:
			return fmt.Errorf("%w: internal node %d has no suffix link", ErrCorruptTree, v)
		}
		if !isRoot && nd.ln <= 0 {
			return fmt.Errorf("%w: node %d has empty edge", ErrCorruptTree, v)
		}
	}
	if leaves != len(st.text) {
		return fmt.Errorf("%w: %d leaves for text of length %d", ErrCorruptTree, leaves, len(st.text))
	}
	seen := make([]bool, len(st.nodes))
	for i := range st.text {
		l, ok := st.fromRoot(st.text[i:])
		if !ok {
			return fmt.Errorf("%w: suffix %d not found", ErrCorruptTree, i)
		}
		if l.Depth != 0 || !st.nodes[l.Above].isLeaf() {
			return fmt.Errorf("%w: suffix %d does not end at a leaf", ErrCorruptTree, i)
		}
		if seen[l.Above] {
			return fmt.Errorf("%w: suffix %d shares leaf %d", ErrCorruptTree, i, l.Above)
		}
		if st.nodes[l.Above].id != i {
			return fmt.Errorf("%w: leaf %d labelled %d, want %d", ErrCorruptTree, l.Above, st.nodes[l.Above].id, i)
		}
		seen[l.Above] = true
	}
	return nil
}
