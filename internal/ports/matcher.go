// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"bytes"
	"context"
	"math/big"
	"sort"
)

// Composite is one candidate RSA modulus N = P*Q formed from two confirmed
// primes, canonically oriented so that P <= Q. KeyMSF and KeyLSF are the
// minimal-length byte encodings of N, most- and least-significant byte first.
type Composite struct {
	P, Q, N *big.Int
	KeyMSF  []byte
	KeyLSF  []byte
}

// CompositeIndex maps the byte encoding of every candidate product back to
// its (P, Q) pair. Both orientations of a product resolve to the same entry,
// and a single key may resolve to several entries: one product's MSF
// encoding can equal another product's LSF encoding (262 reads MSF as the
// same bytes 1537 reads LSF). The index is built once per run and is
// read-only afterwards, so it may be shared across worker goroutines
// without synchronization.
type CompositeIndex struct {
	entries []Composite
	byKey   map[string][]int
}

// NewCompositeIndex creates an empty index with room for n entries.
func NewCompositeIndex(n int) *CompositeIndex {
	return &CompositeIndex{
		entries: make([]Composite, 0, n),
		byKey:   make(map[string][]int, 2*n),
	}
}

// Add inserts a composite under both of its byte keys and returns its entry
// ID. A palindromic encoding registers the key once; distinct entries
// sharing a key across orientations accumulate under it.
func (x *CompositeIndex) Add(c Composite) int {
	id := len(x.entries)
	x.entries = append(x.entries, c)
	x.byKey[string(c.KeyMSF)] = append(x.byKey[string(c.KeyMSF)], id)
	if !bytes.Equal(c.KeyMSF, c.KeyLSF) {
		x.byKey[string(c.KeyLSF)] = append(x.byKey[string(c.KeyLSF)], id)
	}
	return id
}

// Lookup resolves a byte key to every entry whose encoding, in either
// orientation, equals it. Nil when the key is absent.
func (x *CompositeIndex) Lookup(key []byte) []int {
	return x.byKey[string(key)]
}

// Entry returns the composite with the given entry ID.
func (x *CompositeIndex) Entry(id int) Composite {
	return x.entries[id]
}

// Len returns the number of composite entries.
func (x *CompositeIndex) Len() int {
	return len(x.entries)
}

// Keys returns every distinct byte key in the index together with the entry
// IDs it resolves to. Order is unspecified.
func (x *CompositeIndex) Keys() ([][]byte, [][]int) {
	keys := make([][]byte, 0, len(x.byKey))
	ids := make([][]int, 0, len(x.byKey))
	for k, entryIDs := range x.byKey {
		keys = append(keys, []byte(k))
		ids = append(ids, entryIDs)
	}
	return keys, ids
}

// KeyLengths returns the distinct key lengths present in the index, ascending.
// For well-formed input every key has the same length (twice the prime size),
// but the matchers do not rely on that.
func (x *CompositeIndex) KeyLengths() []int {
	seen := make(map[int]bool)
	var lengths []int
	for k := range x.byKey {
		if !seen[len(k)] {
			seen[len(k)] = true
			lengths = append(lengths, len(k))
		}
	}
	sort.Ints(lengths)
	return lengths
}

// MatchesFor converts a set of entry IDs into Match results sorted by N.
// Matchers deduplicate by entry ID internally; this produces the final,
// deterministic result slice all strategies share.
func (x *CompositeIndex) MatchesFor(ids map[int]struct{}) []Match {
	matches := make([]Match, 0, len(ids))
	for id := range ids {
		e := x.entries[id]
		matches = append(matches, Match{P: e.P, Q: e.Q, N: e.N})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].N.Cmp(matches[j].N) < 0
	})
	return matches
}

// Match is a confirmed (P, Q, N) triple: the byte encoding of N, in at least
// one orientation, occurs somewhere in the scanned buffer.
type Match struct {
	P, Q, N *big.Int
}

// Matcher searches a buffer for the byte encodings of every composite in the
// index. The three strategies (naive, automaton, rolling) differ only in
// algorithmic approach; their result sets must be identical on the same input.
// Results are deduplicated by pair and sorted by N.
type Matcher interface {
	// Name returns the strategy name as used in configuration.
	Name() string

	// Match scans buf against the index. The buffer and index are read-only
	// and may be shared; Match must not retain either past its return.
	Match(ctx context.Context, buf []byte, index *CompositeIndex) ([]Match, error)
}
