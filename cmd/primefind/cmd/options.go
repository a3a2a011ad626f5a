package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zetatwo/primefind/internal/adapters/bbolt"
	"github.com/zetatwo/primefind/internal/app"
	"github.com/zetatwo/primefind/internal/ports"
)

// Scan options shared by the scan, primes and watch commands.
var (
	flagPrimeSize int
	flagNullRun   int
	flagOrder     string
	flagStrategy  string
	flagWorkers   int
	flagStage1    int
	flagStage2    int
	flagWarnAt    int
	flagUseCache  bool
	flagCachePath string
	flagQuiet     bool
)

// addScanFlags registers the shared scan options on a command.
func addScanFlags(c *cobra.Command) {
	f := c.Flags()
	f.IntVarP(&flagPrimeSize, "prime-size", "s", 0, "Size in bytes of the primes to search for (required)")
	f.IntVarP(&flagNullRun, "null-filter-length", "f", 0, "Discard windows containing a zero-byte run this long (required)")
	f.StringVar(&flagOrder, "order", app.OrderBoth, "Byte order(s) to test per window: msf, lsf or both")
	f.StringVar(&flagStrategy, "matcher", app.StrategyAutomaton, "Matcher strategy: naive, automaton or rolling")
	f.IntVar(&flagWorkers, "workers", 0, "Worker goroutines (0 = all CPUs)")
	f.IntVar(&flagStage1, "stage1-rounds", 0, "Rounds for the cheap primality pre-filter (0 = default)")
	f.IntVar(&flagStage2, "stage2-rounds", 0, "Rounds for the confirming primality test (0 = default)")
	f.IntVar(&flagWarnAt, "warn-threshold", 0, "Confirmed-prime count that triggers the memory advisory (0 = default)")
	f.BoolVar(&flagUseCache, "cache", false, "Cache confirmed-prime sets between runs")
	f.StringVar(&flagCachePath, "cache-path", "", "Prime cache location (default: user cache dir)")
	f.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")

	_ = c.MarkFlagRequired("prime-size")
	_ = c.MarkFlagRequired("null-filter-length")
}

// buildApp assembles a validated App from the shared flags, attaching the
// stderr observer and, when requested, the bbolt prime cache. The caller
// owns closing the returned cache (nil when caching is off).
func buildApp() (*app.App, ports.PrimeCache, error) {
	a, err := app.New(app.Config{
		PrimeSize:     flagPrimeSize,
		NullRun:       flagNullRun,
		Order:         flagOrder,
		Strategy:      flagStrategy,
		Workers:       flagWorkers,
		Stage1Rounds:  flagStage1,
		Stage2Rounds:  flagStage2,
		WarnThreshold: flagWarnAt,
	})
	if err != nil {
		return nil, nil, err
	}

	if !flagQuiet {
		a.Observer = newStderrObserver()
	}

	var cache ports.PrimeCache
	if flagUseCache {
		store, err := bbolt.NewStore(cachePath())
		if err != nil {
			return nil, nil, fmt.Errorf("open prime cache: %w", err)
		}
		cache = store
		a.Cache = store
	}
	return a, cache, nil
}

// cachePath resolves the prime cache location: the flag when set, otherwise
// a primefind directory under the user cache dir, falling back to the
// working directory when no user cache dir exists.
func cachePath() string {
	if flagCachePath != "" {
		return flagCachePath
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".primefind.db"
	}
	dir := filepath.Join(base, "primefind")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ".primefind.db"
	}
	return filepath.Join(dir, "primes.db")
}

// readDump loads a dump file fully into memory. The pipeline is in-core by
// design; dumps are assumed to fit.
func readDump(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	return buf, nil
}
