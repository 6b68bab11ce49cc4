package seqindex

import (
	"errors"
)

var (
	ErrNoSource        = errors.New("seqindex: no text, suffix array or suffix tree given")
	ErrMultipleSources = errors.New("seqindex: more than one source given")
	ErrInvalidInterval = errors.New("seqindex: interval must be positive")
)

// Symbol is a text character after encoding. Byte b is stored as b+1 so the
// sentinel can take the value 0 and sort below everything else.
type Symbol uint16

const (
	// Sentinel terminates every indexed text.
	Sentinel Symbol = 0

	// SentinelByte is how the sentinel is written in input and output.
	SentinelByte = '$'

	// SymbolMax is the exclusive upper bound of symbol values.
	SymbolMax = 257
)

// SymbolOf returns the symbol for byte b.
func SymbolOf(b byte) Symbol {
	return Symbol(b) + 1
}

// Byte returns the printable form of the symbol.
func (s Symbol) Byte() byte {
	if s == Sentinel {
		return SentinelByte
	}
	return byte(s - 1)
}

// Encode maps a pattern to symbols. The result never contains the sentinel.
func Encode(p []byte) []Symbol {
	syms := make([]Symbol, len(p))
	for i, b := range p {
		syms[i] = SymbolOf(b)
	}
	return syms
}

// Decode renders symbols as bytes, the sentinel as '$'.
func Decode(syms []Symbol) []byte {
	b := make([]byte, len(syms))
	for i, s := range syms {
		b[i] = s.Byte()
	}
	return b
}

// NewText encodes t and terminates it with exactly one sentinel. A single
// trailing '$' is taken to be the sentinel already.
func NewText(t []byte) []Symbol {
	if len(t) > 0 && t[len(t)-1] == SentinelByte {
		t = t[:len(t)-1]
	}
	syms := make([]Symbol, len(t)+1)
	for i, b := range t {
		syms[i] = SymbolOf(b)
	}
	syms[len(t)] = Sentinel
	return syms
}

// Alphabet is the sorted set of symbols seen in a string.
type Alphabet struct {
	syms  []Symbol
	index [SymbolMax]int16
}

func newAlphabet(s []Symbol) *Alphabet {
	a := &Alphabet{}
	var seen [SymbolMax]bool
	for _, c := range s {
		seen[c] = true
	}
	for c := range seen {
		a.index[c] = -1
		if seen[c] {
			a.index[c] = int16(len(a.syms))
			a.syms = append(a.syms, Symbol(c))
		}
	}
	return a
}

// Symbols returns the symbols in increasing order.
func (a *Alphabet) Symbols() []Symbol {
	return a.syms
}

// Len returns the number of distinct symbols.
func (a *Alphabet) Len() int {
	return len(a.syms)
}

// Index returns the dense index of c, or -1 if c is absent.
func (a *Alphabet) Index(c Symbol) int {
	if int(c) >= SymbolMax {
		return -1
	}
	return int(a.index[c])
}

// compareSuffix compares pattern p against the suffix of text starting at
// off, looking at no more than len(p) symbols. It returns 0 when p is a prefix
// of the suffix.
func compareSuffix(p, text []Symbol, off int) int {
	for i, c := range p {
		if off+i >= len(text) {
			return 1
		}
		t := text[off+i]
		if c < t {
			return -1
		} else if c > t {
			return 1
		}
	}
	return 0
}

// matchLen returns the length of the common prefix of p and q.
func matchLen(p, q []Symbol) int {
	n := min(len(p), len(q))
	for i := 0; i < n; i++ {
		if p[i] != q[i] {
			return i
		}
	}
	return n
}
