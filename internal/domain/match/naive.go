// Package match holds the pure-Go matcher strategies: the naive windowed
// scan and the rolling-hash separator scan. The automaton strategy lives in
// the ahocorasick adapter since it wraps a third-party library. All three
// implement ports.Matcher and must produce identical result sets.
package match

import (
	"context"
	"runtime"
	"sync"

	"github.com/zetatwo/primefind/internal/ports"
)

// Naive slides a window of each key width across the buffer and looks every
// window up directly in the composite index. O(len(buf)) lookups per width;
// for well-formed input there is exactly one width, twice the prime size.
// Fully data-parallel: the buffer and index are read-only.
type Naive struct {
	Workers int // 0 means GOMAXPROCS
}

// Name implements ports.Matcher.
func (m *Naive) Name() string { return "naive" }

// Match implements ports.Matcher.
func (m *Naive) Match(ctx context.Context, buf []byte, idx *ports.CompositeIndex) ([]ports.Match, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, nil
	}
	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	found := make(map[int]struct{})
	for _, width := range idx.KeyLengths() {
		if width == 0 || width > len(buf) {
			continue
		}
		if err := scanWidth(ctx, buf, idx, width, workers, found); err != nil {
			return nil, err
		}
	}
	return idx.MatchesFor(found), nil
}

// scanWidth looks up every width-sized window of buf and records matching
// entry IDs into found. Offsets are chunked across workers; each worker
// collects into a local set merged at the end.
func scanWidth(ctx context.Context, buf []byte, idx *ports.CompositeIndex, width, workers int, found map[int]struct{}) error {
	const chunk = 64 * 1024
	windows := len(buf) - width + 1

	jobs := make(chan [2]int, workers*2)
	results := make(chan map[int]struct{}, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			local := make(map[int]struct{})
			for {
				select {
				case <-ctx.Done():
					return
				case span, ok := <-jobs:
					if !ok {
						results <- local
						return
					}
					for i := span[0]; i < span[1]; i++ {
						for _, id := range idx.Lookup(buf[i : i+width]) {
							local[id] = struct{}{}
						}
					}
				}
			}
		}()
	}

	var cwg sync.WaitGroup
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for local := range results {
			for id := range local {
				found[id] = struct{}{}
			}
		}
	}()

feed:
	for lo := 0; lo < windows; lo += chunk {
		hi := lo + chunk
		if hi > windows {
			hi = windows
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- [2]int{lo, hi}:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	return ctx.Err()
}
