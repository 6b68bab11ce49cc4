package seqindex

import "fmt"

// Checkpoints stores, every interval rows of a BWT, how many times each
// symbol occurred up to and including that row. Rank queries start from the
// closest checkpoint at or before the row and scan fewer than interval rows.
type Checkpoints struct {
	interval int
	alpha    *Alphabet
	cps      [][]int // by dense symbol index, then checkpoint
}

// NewCheckpoints scans bwt once. interval must be positive.
func NewCheckpoints(bwt []Symbol, interval int) *Checkpoints {
	if interval <= 0 {
		panic(fmt.Errorf("seqindex: checkpoint interval %d: %w", interval, ErrInvalidInterval))
	}
	alpha := newAlphabet(bwt)
	n := (len(bwt) + interval - 1) / interval
	cps := make([][]int, alpha.Len())
	for k := range cps {
		cps[k] = make([]int, 0, n)
	}
	tally := make([]int, alpha.Len())
	for i, c := range bwt {
		tally[alpha.index[c]]++
		if i%interval == 0 {
			for k, t := range tally {
				cps[k] = append(cps[k], t)
			}
		}
	}
	return &Checkpoints{
		interval: interval,
		alpha:    alpha,
		cps:      cps,
	}
}

// Rank returns the number of times c occurs in bwt[0:row+1]. It is 0 for
// negative rows and symbols that do not occur at all.
func (cp *Checkpoints) Rank(bwt []Symbol, c Symbol, row int) int {
	if row < 0 {
		return 0
	}
	k := cp.alpha.Index(c)
	if k < 0 {
		return 0
	}
	i := row / cp.interval
	rank := cp.cps[k][i]
	for j := i*cp.interval + 1; j <= row; j++ {
		if bwt[j] == c {
			rank++
		}
	}
	return rank
}

// Interval returns the row spacing between checkpoints.
func (cp *Checkpoints) Interval() int {
	return cp.interval
}

// Alphabet returns the symbols of the BWT.
func (cp *Checkpoints) Alphabet() *Alphabet {
	return cp.alpha
}
