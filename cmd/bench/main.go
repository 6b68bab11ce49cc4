package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/exp/mmap"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/viniciusth/seqindex"
)

type Index interface {
	Occurrences(p []byte) []int
}

type params struct {
	cpInterval  int
	ssaInterval int
}

type variant struct {
	name  string
	build func(text []byte, p params) (Index, error)
}

var variants = map[string]variant{
	"sa": {name: "sa", build: func(text []byte, _ params) (Index, error) {
		return seqindex.NewSuffixArray(text), nil
	}},
	"sa_lcp": {name: "sa_lcp", build: func(text []byte, _ params) (Index, error) {
		return seqindex.NewSuffixArray(text).WithLCP(), nil
	}},
	"tree": {name: "tree", build: func(text []byte, _ params) (Index, error) {
		return seqindex.NewSuffixTree(text), nil
	}},
	"fm_text": {name: "fm_text", build: func(text []byte, p params) (Index, error) {
		return seqindex.NewFMIndex(text, p.cpInterval, p.ssaInterval)
	}},
	"fm_sa": {name: "fm_sa", build: func(text []byte, p params) (Index, error) {
		return seqindex.FMIndexFromSuffixArray(seqindex.NewSuffixArray(text), p.cpInterval, p.ssaInterval)
	}},
	"fm_tree": {name: "fm_tree", build: func(text []byte, p params) (Index, error) {
		return seqindex.FMIndexFromSuffixTree(seqindex.NewSuffixTree(text), p.cpInterval, p.ssaInterval)
	}},
}

// memMonitor samples the heap until stopped. maxAlloc is owned by the
// sampling goroutine until done is closed.
type memMonitor struct {
	maxAlloc uint64
	stop     chan struct{}
	done     chan struct{}
}

func newMemMonitor() *memMonitor {
	mm := &memMonitor{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(mm.done)
		for {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			if m.Alloc > mm.maxAlloc {
				mm.maxAlloc = m.Alloc
			}
			select {
			case <-mm.stop:
				return
			default:
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()
	return mm
}

func (mm *memMonitor) Stop() uint64 {
	close(mm.stop)
	<-mm.done
	return mm.maxAlloc
}

func getCurrentAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

func measureBuild(v variant, text []byte, p params) (time.Duration, uint64, uint64, Index, error) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	idx, err := v.build(text, p)
	dur := time.Since(start)
	peak := mm.Stop()
	if err != nil {
		return 0, 0, 0, nil, err
	}
	runtime.GC()
	alloc := getCurrentAlloc()
	return dur, peak, alloc, idx, nil
}

func measureQuery(idx Index, patterns [][]byte) (time.Duration, uint64, int) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	hits := 0
	for _, p := range patterns {
		hits += len(idx.Occurrences(p))
	}
	dur := time.Since(start)
	peak := mm.Stop()
	return dur, peak, hits
}

func randomDNA(r *rand.Rand, n int) []byte {
	text := make([]byte, n)
	for i := range text {
		text[i] = "ACGT"[r.Intn(4)]
	}
	return text
}

// loadText maps path read-only and copies its contents out.
func loadText(path string) ([]byte, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer ra.Close()
	text := make([]byte, ra.Len())
	if _, err := ra.ReadAt(text, 0); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return text, nil
}

func runBenchmark(log *slog.Logger, v variant, text []byte, P, Q, runs int, p params) error {
	printer := message.NewPrinter(language.English)
	for run := 0; run < runs; run++ {
		r := rand.New(rand.NewSource(int64(run)))
		log.Debug("building", "variant", v.name, "run", run, "n", len(text))
		bt, bp, ba, idx, err := measureBuild(v, text, p)
		if err != nil {
			return fmt.Errorf("building %s: %w", v.name, err)
		}

		patterns := make([][]byte, Q)
		for i := range patterns {
			start := r.Intn(len(text) - P + 1)
			patterns[i] = text[start : start+P]
		}
		qt, qp, hits := measureQuery(idx, patterns)
		fmt.Printf("%s,%d,%d,%d,%d,%d,%.0f,%d,%d,%.0f,%d,%d\n",
			v.name, len(text), P, Q, p.cpInterval, p.ssaInterval,
			float64(bt.Nanoseconds()), bp, ba,
			float64(qt.Nanoseconds()), qp, hits)
		printer.Fprintf(os.Stderr, "%s run %d: %d symbols built in %v, %d queries in %v, %d hits\n",
			v.name, run, len(text), bt, Q, qt, hits)
	}
	return nil
}

func main() {
	variantName := pflag.StringP("variant", "v", "", "Variant to benchmark")
	n := pflag.IntP("n", "n", 0, "Random text length, ignored with --file")
	file := pflag.StringP("file", "f", "", "Benchmark on the contents of this file")
	p := pflag.IntP("p", "p", 0, "Pattern length P")
	q := pflag.IntP("q", "q", 0, "Number of queries Q")
	cp := pflag.Int("cp", seqindex.DefaultCheckpointInterval, "FM index checkpoint interval")
	ssa := pflag.Int("ssa", seqindex.DefaultSampleInterval, "FM index suffix array sample interval")
	runs := pflag.Int("runs", 3, "Number of runs for averaging")
	seed := pflag.Int64("seed", 1, "Seed for the random text")
	cpuprofile := pflag.String("cpuprofile", "", "Write CPU profile to file")
	verbose := pflag.BoolP("verbose", "V", false, "Log progress")
	pflag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Error("could not create CPU profile", "err", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Error("could not start CPU profile", "err", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	v, ok := variants[*variantName]
	if !ok {
		names := make([]string, 0, len(variants))
		for name := range variants {
			names = append(names, name)
		}
		slices.Sort(names)
		fmt.Println("Usage: bench --variant=<variant> (-n=<N> | --file=<path>) -p=<P> -q=<Q> [--cp=<k>] [--ssa=<k>] [--runs=<runs>]")
		fmt.Println("Available variants:", strings.Join(names, ", "))
		os.Exit(1)
	}

	var text []byte
	if *file != "" {
		var err error
		if text, err = loadText(*file); err != nil {
			log.Error("could not load text", "err", err)
			os.Exit(1)
		}
	} else {
		text = randomDNA(rand.New(rand.NewSource(*seed)), *n)
	}
	if len(text) == 0 || *p <= 0 || *q <= 0 || *p > len(text) {
		log.Error("need a non-empty text and 0 < P <= text length, Q > 0", "n", len(text), "p", *p, "q", *q)
		os.Exit(1)
	}

	if err := runBenchmark(log, v, text, *p, *q, *runs, params{cpInterval: *cp, ssaInterval: *ssa}); err != nil {
		log.Error("benchmark failed", "err", err)
		os.Exit(1)
	}
}
