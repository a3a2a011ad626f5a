package cmd

import (
	"fmt"
	"io"
	"math/big"

	"github.com/zetatwo/primefind/internal/ports"
)

// writeMatches prints confirmed (P, Q, N) triples, one per line.
func writeMatches(w io.Writer, matches []ports.Match) {
	for _, m := range matches {
		fmt.Fprintf(w, "P:%s Q:%s N:%s\n", m.P, m.Q, m.N)
	}
}

// writePrimes prints confirmed primes in decimal, one per line.
func writePrimes(w io.Writer, primes []*big.Int) {
	for _, p := range primes {
		fmt.Fprintln(w, p)
	}
}
