// Package ahocorasick implements the automaton matcher strategy using an
// Aho-Corasick automaton. It wraps the petar-dambovaliev/aho-corasick
// library: every byte key in the composite index becomes a pattern, and an
// overlapping pass over the buffer finds every occurrence of every pattern
// regardless of pattern count.
package ahocorasick

import (
	"context"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/zetatwo/primefind/internal/ports"
)

// segmentSize is the span scanned between cancellation checks. Segments
// overlap by the longest key so occurrences spanning a boundary still land
// fully inside one segment.
const segmentSize = 1 << 20

// Matcher implements ports.Matcher. Automaton construction is single
// threaded and proportional to total pattern length; the scan is a linear
// sweep in fixed-size segments. Preferred when the pattern set is large
// relative to the buffer.
type Matcher struct{}

// Name implements ports.Matcher.
func (m *Matcher) Name() string { return "automaton" }

// Match implements ports.Matcher.
func (m *Matcher) Match(ctx context.Context, buf []byte, idx *ports.CompositeIndex) ([]ports.Match, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys, ids := idx.Keys()
	patterns := make([]string, len(keys))
	maxLen := 0
	for i, k := range keys {
		patterns[i] = string(k)
		if len(k) > maxLen {
			maxLen = len(k)
		}
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	automaton := builder.Build(patterns)

	found := make(map[int]struct{})
	for lo := 0; lo < len(buf); lo += segmentSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := lo + segmentSize + maxLen - 1
		if end > len(buf) {
			end = len(buf)
		}
		iter := automaton.IterOverlappingByte(buf[lo:end])
		for next := iter.Next(); next != nil; next = iter.Next() {
			for _, id := range ids[next.Pattern()] {
				found[id] = struct{}{}
			}
		}
	}

	return idx.MatchesFor(found), nil
}
