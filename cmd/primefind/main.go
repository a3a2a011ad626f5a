// primefind recovers RSA key material from raw memory and disk dumps.
// It locates probable primes embedded as byte sequences and confirms them
// by finding their products elsewhere in the same dump.
package main

import (
	"os"

	"github.com/zetatwo/primefind/cmd/primefind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
