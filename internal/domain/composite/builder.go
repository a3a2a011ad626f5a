// Package composite forms every plausible RSA modulus from the confirmed
// prime set: the unordered pairs (P, Q) with P <= Q, their products, and a
// byte-key index over both encodings of each product. This is the most
// memory-hungry stage of the pipeline, O(k²) pairs for k primes, which is
// why the scan stage warns before handing over a large set.
package composite

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/zetatwo/primefind/internal/domain/bignum"
	"github.com/zetatwo/primefind/internal/ports"
)

// Build enumerates pairs over the sorted prime set and returns the populated
// index. Pair enumeration is data-parallel across outer indexes; insertion
// is merged sequentially, so entry IDs are deterministic for a given input.
//
// primeSize bounds the acceptable key width: a product whose minimal
// encoding exceeds 2*primeSize cannot be the product of two primeSize-byte
// windows and is rejected with an advisory rather than silently mishandled.
func Build(ctx context.Context, primes []*big.Int, primeSize, workers int, obs ports.Observer) (*ports.CompositeIndex, error) {
	if obs == nil {
		obs = ports.NopObserver{}
	}
	if workers <= 0 {
		workers = 1
	}
	// Canonical pair orientation relies on ascending order; the scan stage
	// already sorts, but cached or caller-supplied sets may not be.
	primes = append([]*big.Int(nil), primes...)
	sort.Slice(primes, func(i, j int) bool { return primes[i].Cmp(primes[j]) < 0 })
	k := len(primes)
	obs.StageStart(ports.StagePairs, int64(k))
	defer obs.StageEnd(ports.StagePairs)

	maxWidth := 2 * primeSize

	// Each job covers one outer index i and produces entries (i, j) for all
	// j >= i, keeping P <= Q without any post-filtering.
	type rowResult struct {
		row      int
		entries  []ports.Composite
		oversize int
	}
	jobs := make(chan int, workers*2)
	results := make(chan rowResult, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					res := rowResult{row: i, entries: make([]ports.Composite, 0, k-i)}
					p := primes[i]
					for j := i; j < k; j++ {
						q := primes[j]
						n := new(big.Int).Mul(p, q)
						keyMSF := bignum.MinimalBytes(n, bignum.MSF)
						if len(keyMSF) > maxWidth {
							res.oversize++
							continue
						}
						res.entries = append(res.entries, ports.Composite{
							P:      p,
							Q:      q,
							N:      n,
							KeyMSF: keyMSF,
							KeyLSF: bignum.MinimalBytes(n, bignum.LSF),
						})
					}
					select {
					case results <- res:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collect rows and insert in row order so the index layout does not
	// depend on scheduling.
	idx := ports.NewCompositeIndex(k * (k + 1) / 2)
	var (
		cwg      sync.WaitGroup
		oversize int
	)
	pending := make(map[int][]ports.Composite, workers)
	next := 0
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		done := 0
		for res := range results {
			oversize += res.oversize
			pending[res.row] = res.entries
			for {
				entries, ok := pending[next]
				if !ok {
					break
				}
				for _, e := range entries {
					idx.Add(e)
				}
				delete(pending, next)
				next++
			}
			done++
			obs.StageProgress(ports.StagePairs, int64(done))
		}
	}()

feed:
	for i := 0; i < k; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if oversize > 0 {
		obs.Advisory(fmt.Sprintf(
			"rejected %d composite keys wider than %d bytes; primes do not fit the configured prime size",
			oversize, maxWidth))
	}
	return idx, nil
}
