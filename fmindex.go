package seqindex

import (
	"fmt"

	"golang.org/x/exp/slices"
)

const (
	DefaultCheckpointInterval = 4
	DefaultSampleInterval     = 4
)

// FMIndex answers substring queries by backward search over the BWT of a
// text. Offsets are recovered from a suffix array sample that keeps every
// row whose offset is a multiple of the sample interval.
type FMIndex struct {
	bwt       []Symbol
	dollarRow int
	cps       *Checkpoints
	// first[c] is the number of BWT symbols smaller than c.
	first       [SymbolMax + 1]int
	ssa         map[int]int
	ssaInterval int
}

type FMBuilder struct {
	text        []byte
	hasText     bool
	sa          *SuffixArray
	st          *SuffixTree
	cpInterval  int
	ssaInterval int
}

func NewFMBuilder() *FMBuilder {
	return &FMBuilder{
		cpInterval:  DefaultCheckpointInterval,
		ssaInterval: DefaultSampleInterval,
	}
}

// CheckpointInterval sets the row spacing of rank checkpoints. Smaller values
// use more memory and scan less per rank query.
func (b *FMBuilder) CheckpointInterval(k int) *FMBuilder {
	b.cpInterval = k
	return b
}

// SampleInterval keeps suffix array rows whose offset is a multiple of k.
// Resolving a row takes at most k-1 LF steps.
func (b *FMBuilder) SampleInterval(k int) *FMBuilder {
	b.ssaInterval = k
	return b
}

// Text builds from raw text, sorting its suffixes.
func (b *FMBuilder) Text(t []byte) *FMBuilder {
	b.text = t
	b.hasText = true
	return b
}

// SuffixArray builds from a prebuilt suffix array.
func (b *FMBuilder) SuffixArray(sa *SuffixArray) *FMBuilder {
	b.sa = sa
	return b
}

// SuffixTree builds from the suffix array read off a suffix tree.
func (b *FMBuilder) SuffixTree(st *SuffixTree) *FMBuilder {
	b.st = st
	return b
}

func (b *FMBuilder) Build() (*FMIndex, error) {
	if b.cpInterval <= 0 {
		return nil, fmt.Errorf("checkpoint interval %d: %w", b.cpInterval, ErrInvalidInterval)
	}
	if b.ssaInterval <= 0 {
		return nil, fmt.Errorf("sample interval %d: %w", b.ssaInterval, ErrInvalidInterval)
	}

	sources := 0
	for _, set := range []bool{b.hasText, b.sa != nil, b.st != nil} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, ErrNoSource
	case sources > 1:
		return nil, ErrMultipleSources
	}

	sa := b.sa
	switch {
	case b.hasText:
		sa = NewSuffixArray(b.text)
	case b.st != nil:
		sa = SuffixArrayFromTree(b.st)
	}
	return newFMIndex(sa, b.cpInterval, b.ssaInterval), nil
}

// NewFMIndex builds an FM index of text.
func NewFMIndex(text []byte, cpInterval, ssaInterval int) (*FMIndex, error) {
	return NewFMBuilder().Text(text).CheckpointInterval(cpInterval).SampleInterval(ssaInterval).Build()
}

// FMIndexFromSuffixArray builds an FM index from a suffix array.
func FMIndexFromSuffixArray(sa *SuffixArray, cpInterval, ssaInterval int) (*FMIndex, error) {
	return NewFMBuilder().SuffixArray(sa).CheckpointInterval(cpInterval).SampleInterval(ssaInterval).Build()
}

// FMIndexFromSuffixTree builds an FM index from a suffix tree.
func FMIndexFromSuffixTree(st *SuffixTree, cpInterval, ssaInterval int) (*FMIndex, error) {
	return NewFMBuilder().SuffixTree(st).CheckpointInterval(cpInterval).SampleInterval(ssaInterval).Build()
}

func newFMIndex(sa *SuffixArray, cpInterval, ssaInterval int) *FMIndex {
	bwt, dollarRow := sa.ToBWT()
	fm := &FMIndex{
		bwt:         bwt,
		dollarRow:   dollarRow,
		cps:         NewCheckpoints(bwt, cpInterval),
		ssa:         make(map[int]int, len(bwt)/ssaInterval+1),
		ssaInterval: ssaInterval,
	}
	for row, off := range sa.SampleByRank(ssaInterval) {
		fm.ssa[row] = off
	}

	var tots [SymbolMax]int
	for _, c := range bwt {
		tots[c]++
	}
	total := 0
	for c := range tots {
		fm.first[c] = total
		total += tots[c]
	}
	fm.first[SymbolMax] = total
	return fm
}

// Len returns the number of BWT rows, sentinel included.
func (fm *FMIndex) Len() int {
	return len(fm.bwt)
}

// BWT returns the Burrows-Wheeler transform. It must not be modified.
func (fm *FMIndex) BWT() []Symbol {
	return fm.bwt
}

// DollarRow returns the row whose suffix starts at offset 0.
func (fm *FMIndex) DollarRow() int {
	return fm.dollarRow
}

// Checkpoints returns the rank checkpoints.
func (fm *FMIndex) Checkpoints() *Checkpoints {
	return fm.cps
}

// SampleInterval returns the suffix array sampling interval.
func (fm *FMIndex) SampleInterval() int {
	return fm.ssaInterval
}

// Count returns the number of BWT symbols smaller than c, which is the first
// row of the block of suffixes starting with c.
func (fm *FMIndex) Count(c Symbol) int {
	if int(c) >= SymbolMax {
		return fm.first[SymbolMax]
	}
	return fm.first[c]
}

// CountByte is Count for an unencoded byte.
func (fm *FMIndex) CountByte(b byte) int {
	return fm.Count(SymbolOf(b))
}

// NextRange maps the half-open row range [l, r) of suffixes starting with
// some string to the range of those starting with c followed by it.
func (fm *FMIndex) NextRange(l, r int, c Symbol) (int, int) {
	base := fm.Count(c)
	return fm.cps.Rank(fm.bwt, c, l-1) + base, fm.cps.Rank(fm.bwt, c, r-1) + base
}

// Range returns the half-open range of rows whose suffixes start with p.
func (fm *FMIndex) Range(p []byte) (int, int) {
	l, r := 0, len(fm.bwt)
	for i := len(p) - 1; i >= 0 && l < r; i-- {
		l, r = fm.NextRange(l, r, SymbolOf(p[i]))
	}
	return l, r
}

// StepLeft returns the row of the suffix one position left of row's suffix.
func (fm *FMIndex) StepLeft(row int) int {
	c := fm.bwt[row]
	return fm.cps.Rank(fm.bwt, c, row-1) + fm.Count(c)
}

// Resolve returns the text offset of the suffix at row.
func (fm *FMIndex) Resolve(row int) int {
	steps := 0
	for {
		if off, ok := fm.ssa[row]; ok {
			return off + steps
		}
		row = fm.StepLeft(row)
		steps++
	}
}

// HasSubstring reports whether p occurs in the text.
func (fm *FMIndex) HasSubstring(p []byte) bool {
	l, r := fm.Range(p)
	return r > l
}

// HasSuffix reports whether p is a suffix of the text.
func (fm *FMIndex) HasSuffix(p []byte) bool {
	l, r := fm.Range(p)
	return r > l && fm.Resolve(l)+len(p) == len(fm.bwt)-1
}

// Occurrences returns the sorted offsets at which p occurs.
func (fm *FMIndex) Occurrences(p []byte) []int {
	l, r := fm.Range(p)
	if l >= r {
		return nil
	}
	occ := make([]int, 0, r-l)
	for row := l; row < r; row++ {
		occ = append(occ, fm.Resolve(row))
	}
	slices.Sort(occ)
	return occ
}

// Extract returns up to length text symbols ending just before the suffix
// at row, stopping early at the start of the text.
func (fm *FMIndex) Extract(row, length int) []byte {
	out := make([]byte, 0, length)
	for len(out) < length && row != fm.dollarRow {
		out = append(out, fm.bwt[row].Byte())
		row = fm.StepLeft(row)
	}
	slices.Reverse(out)
	return out
}

// Text reconstructs the indexed text without its sentinel.
func (fm *FMIndex) Text() []byte {
	// Row 0 is the lone sentinel suffix.
	return fm.Extract(0, len(fm.bwt)-1)
}
