// Package scan slides fixed-size windows across a dump buffer, filters out
// padding-dominated windows, and runs the two-stage probabilistic primality
// test over the survivors. The scan is data-parallel: workers own disjoint
// offset ranges and only the final merge into the deduplicated prime set is
// serialized.
package scan

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/zetatwo/primefind/internal/domain/bignum"
	"github.com/zetatwo/primefind/internal/ports"
)

// ErrBufferTooSmall reports that the buffer cannot hold a single window.
var ErrBufferTooSmall = errors.New("buffer shorter than prime size")

// Defaults for the two-stage primality test and the pair-explosion warning.
// Stage 1 is a cheap pre-filter; stage 2 brings the false-positive rate
// below 4^-20. The warning threshold guards the O(k²) pair construction
// that follows the scan.
const (
	DefaultStage1Rounds  = 1
	DefaultStage2Rounds  = 20
	DefaultWarnThreshold = 1000

	// offsets handed to a worker per job; also the progress granularity
	chunkSize = 4096
)

// Options controls a scan.
type Options struct {
	PrimeSize     int            // window width in bytes, > 0
	NullRun       int            // zero-run length that disqualifies a window, > 0
	Orders        []bignum.Order // byte orders to test per window
	Workers       int            // 0 means GOMAXPROCS
	Stage1Rounds  int            // 0 means DefaultStage1Rounds
	Stage2Rounds  int            // 0 means DefaultStage2Rounds
	WarnThreshold int            // 0 means DefaultWarnThreshold
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if len(o.Orders) == 0 {
		o.Orders = []bignum.Order{bignum.MSF, bignum.LSF}
	}
	if o.Stage1Rounds <= 0 {
		o.Stage1Rounds = DefaultStage1Rounds
	}
	if o.Stage2Rounds <= 0 {
		o.Stage2Rounds = DefaultStage2Rounds
	}
	if o.WarnThreshold <= 0 {
		o.WarnThreshold = DefaultWarnThreshold
	}
	return o
}

// HasNullRun reports whether window contains n consecutive zero bytes.
// Long zero runs in memory are padding, not key material; filtering them
// before big-integer construction avoids wasted arithmetic.
func HasNullRun(window []byte, n int) bool {
	if n <= 0 {
		return false
	}
	run := 0
	for _, b := range window {
		if b != 0 {
			run = 0
			continue
		}
		run++
		if run >= n {
			return true
		}
	}
	return false
}

// FindPrimes scans buf and returns the deduplicated set of confirmed primes,
// sorted ascending. The result is identical for any worker count. A cancelled
// context aborts the scan; no partial set is returned.
func FindPrimes(ctx context.Context, buf []byte, opts Options, obs ports.Observer) ([]*big.Int, error) {
	opts = opts.withDefaults()
	if obs == nil {
		obs = ports.NopObserver{}
	}
	if opts.PrimeSize <= 0 {
		return nil, fmt.Errorf("prime size must be positive, got %d", opts.PrimeSize)
	}
	windows := len(buf) - opts.PrimeSize + 1
	if windows <= 0 {
		return nil, fmt.Errorf("%w: prime size %d, buffer %d bytes",
			ErrBufferTooSmall, opts.PrimeSize, len(buf))
	}

	obs.StageStart(ports.StageScan, int64(windows))
	defer obs.StageEnd(ports.StageScan)

	type span struct{ lo, hi int } // window offsets [lo, hi)
	jobs := make(chan span, opts.Workers*2)
	results := make(chan map[string]*big.Int, opts.Workers)

	var visited atomic.Int64

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		go func() {
			defer wg.Done()
			local := make(map[string]*big.Int)
			for {
				select {
				case <-ctx.Done():
					return
				case s, ok := <-jobs:
					if !ok {
						results <- local
						return
					}
					for i := s.lo; i < s.hi; i++ {
						scanWindow(buf[i:i+opts.PrimeSize], opts, local)
					}
					obs.StageProgress(ports.StageScan, visited.Add(int64(s.hi-s.lo)))
				}
			}
		}()
	}

	// Merge worker sets as they retire.
	set := make(map[string]*big.Int)
	var cwg sync.WaitGroup
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for local := range results {
			for k, v := range local {
				set[k] = v
			}
		}
	}()

feed:
	for lo := 0; lo < windows; lo += chunkSize {
		hi := lo + chunkSize
		if hi > windows {
			hi = windows
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- span{lo, hi}:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if exceedsPairBudget(len(set), opts.WarnThreshold) {
		obs.Advisory(pairExplosionAdvisory(len(set), opts.WarnThreshold))
	}

	primes := make([]*big.Int, 0, len(set))
	for _, p := range set {
		primes = append(primes, p)
	}
	sort.Slice(primes, func(i, j int) bool { return primes[i].Cmp(primes[j]) < 0 })
	return primes, nil
}

// scanWindow applies the null-run filter and the two-stage primality test to
// one window, adding confirmed primes to the worker-local set. A window that
// fails any stage is simply excluded; nothing aborts the scan.
func scanWindow(window []byte, opts Options, local map[string]*big.Int) {
	if HasNullRun(window, opts.NullRun) {
		return
	}
	for _, order := range opts.Orders {
		n := bignum.FromBytes(window, order)
		if !n.ProbablyPrime(opts.Stage1Rounds) {
			continue
		}
		if !n.ProbablyPrime(opts.Stage2Rounds) {
			continue
		}
		local[string(n.Bytes())] = n
	}
}

// exceedsPairBudget reports whether a confirmed-prime count is large enough
// to warrant the pair-explosion advisory. Strictly above the threshold: a
// count equal to it stays quiet.
func exceedsPairBudget(count, threshold int) bool {
	return count > threshold
}

// pairExplosionAdvisory is the warning emitted when the confirmed-prime
// count makes the upcoming O(k²) pair construction a memory risk.
func pairExplosionAdvisory(count, threshold int) string {
	return fmt.Sprintf(
		"%d confirmed primes exceeds %d: pair construction is O(k²) in time and memory; consider a longer null filter",
		count, threshold)
}
