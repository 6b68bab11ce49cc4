package seqindex

import "fmt"

// Locus is a position in a suffix tree. With Depth 0 it is the node Above
// itself. Otherwise it lies Depth symbols down the edge from Above to Below,
// whose first symbol is Sel.
type Locus struct {
	Above int32
	Below int32
	Sel   Symbol
	Depth int
}

// AtNode reports whether the locus sits on a node rather than inside an edge.
func (l Locus) AtNode() bool {
	return l.Depth == 0
}

// check panics if the locus does not describe a real position in st.
func (l Locus) check(st *SuffixTree) {
	if l.Above < 0 || int(l.Above) >= len(st.nodes) {
		panic(fmt.Sprintf("seqindex: locus above unknown node %d", l.Above))
	}
	if l.Depth == 0 {
		if l.Below != noNode {
			panic(fmt.Sprintf("seqindex: locus at node %d names node %d below", l.Above, l.Below))
		}
		return
	}
	if l.Below == noNode {
		panic(fmt.Sprintf("seqindex: locus %d deep below node %d has no node below", l.Depth, l.Above))
	}
	if st.child(l.Above, l.Sel) != l.Below {
		panic(fmt.Sprintf("seqindex: node %d is not reached from %d by symbol %d", l.Below, l.Above, l.Sel))
	}
	if l.Depth >= st.nodes[l.Below].ln {
		panic(fmt.Sprintf("seqindex: locus depth %d not inside edge of length %d", l.Depth, st.nodes[l.Below].ln))
	}
}
