package ports

import "math/big"

// CacheKey identifies one confirmed-prime set: the dump content digest plus
// every scan parameter that affects which primes are found. Two runs with
// the same key are guaranteed to produce the same set, so the cached result
// can stand in for a full scan.
type CacheKey struct {
	Digest       uint64 // xxhash64 of the dump contents
	PrimeSize    int
	NullRun      int
	Order        string // "msf", "lsf" or "both"
	Stage1Rounds int
	Stage2Rounds int
}

// PrimeCache persists confirmed-prime sets to durable storage so repeated
// scans of the same dump skip the window scan entirely. Only primes are
// cached; recovered (P, Q, N) triples are never persisted.
//
// Writes must be transactional: a crash mid-write must not corrupt
// previously committed entries.
type PrimeCache interface {
	// SavePrimes stores the confirmed-prime set under key, overwriting any
	// prior entry for the same key.
	SavePrimes(key CacheKey, primes []*big.Int) error

	// LoadPrimes retrieves the set for key. Returns nil, nil when no entry
	// exists (never scanned, or cleared).
	LoadPrimes(key CacheKey) ([]*big.Int, error)

	// Stats reports the number of cached prime sets and the total size of
	// the backing store in bytes.
	Stats() (entries int, sizeBytes int64, err error)

	// Clear removes every cached entry. Idempotent.
	Clear() error

	// Close releases the backing store.
	Close() error
}
