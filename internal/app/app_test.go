package app

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zetatwo/primefind/internal/ports"
)

// scenarioBuffer holds prime 251 (0xFB) as a window, prime 239 (0xEF) as
// another, and their product 59989 (0xEA 0x55) elsewhere in the buffer.
func scenarioBuffer() []byte {
	return []byte{0xFB, 0x01, 0xEF, 0x01, 0xEA, 0x55}
}

func scenarioConfig(strategy string) Config {
	return Config{
		PrimeSize: 1,
		NullRun:   1,
		Strategy:  strategy,
	}
}

func TestRunRecoversPlantedPair(t *testing.T) {
	for _, strategy := range []string{StrategyNaive, StrategyAutomaton, StrategyRolling} {
		t.Run(strategy, func(t *testing.T) {
			a, err := New(scenarioConfig(strategy))
			require.NoError(t, err)

			report, err := a.Run(context.Background(), scenarioBuffer())
			require.NoError(t, err)

			assert.Equal(t, []int64{239, 251}, toInts(report.Primes))
			require.Len(t, report.Matches, 1)
			m := report.Matches[0]
			assert.Equal(t, int64(239), m.P.Int64())
			assert.Equal(t, int64(251), m.Q.Int64())
			assert.Equal(t, int64(59989), m.N.Int64())
		})
	}
}

// Cross-strategy equivalence on a noisy buffer: all three strategies must
// return identical match sets.
func TestStrategiesAgree(t *testing.T) {
	buf := make([]byte, 16384)
	for i := range buf {
		buf[i] = byte(i*251 + 7)
	}
	copy(buf[900:], scenarioBuffer())

	var want []int64
	for _, strategy := range []string{StrategyNaive, StrategyAutomaton, StrategyRolling} {
		a, err := New(Config{PrimeSize: 2, NullRun: 1, Strategy: strategy})
		require.NoError(t, err)
		report, err := a.Run(context.Background(), buf)
		require.NoError(t, err)

		got := make([]int64, len(report.Matches))
		for i, m := range report.Matches {
			assert.LessOrEqual(t, m.P.Cmp(m.Q), 0, "pair not canonical")
			got[i] = m.N.Int64()
		}
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, strategy)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero prime size", Config{NullRun: 2}},
		{"negative prime size", Config{PrimeSize: -1, NullRun: 2}},
		{"zero null run", Config{PrimeSize: 128}},
		{"bad order", Config{PrimeSize: 128, NullRun: 2, Order: "middle-endian"}},
		{"bad strategy", Config{PrimeSize: 128, NullRun: 2, Strategy: "psychic"}},
		{"negative workers", Config{PrimeSize: 128, NullRun: 2, Workers: -3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			require.Error(t, err)
		})
	}
}

func TestRunPropagatesPrecondition(t *testing.T) {
	a, err := New(Config{PrimeSize: 64, NullRun: 2})
	require.NoError(t, err)
	_, err = a.Run(context.Background(), []byte{1, 2, 3})
	require.Error(t, err)
}

// fakeCache is an in-memory ports.PrimeCache with injectable failures.
type fakeCache struct {
	mu      sync.Mutex
	sets    map[ports.CacheKey][]*big.Int
	loads   int
	saves   int
	loadErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{sets: make(map[ports.CacheKey][]*big.Int)}
}

func (f *fakeCache) SavePrimes(key ports.CacheKey, primes []*big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.sets[key] = primes
	return nil
}

func (f *fakeCache) LoadPrimes(key ports.CacheKey) ([]*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.sets[key], nil
}

func (f *fakeCache) Stats() (int, int64, error) { return len(f.sets), 0, nil }
func (f *fakeCache) Clear() error               { f.sets = map[ports.CacheKey][]*big.Int{}; return nil }
func (f *fakeCache) Close() error               { return nil }

func TestFindPrimesUsesCache(t *testing.T) {
	a, err := New(scenarioConfig(StrategyNaive))
	require.NoError(t, err)
	cache := newFakeCache()
	a.Cache = cache

	first, err := a.FindPrimes(context.Background(), scenarioBuffer())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.saves)

	second, err := a.FindPrimes(context.Background(), scenarioBuffer())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.saves, "cache hit must not re-save")
	assert.Equal(t, 2, cache.loads)
	assert.Equal(t, toInts(first), toInts(second))
}

func TestFindPrimesCacheKeySensitivity(t *testing.T) {
	a, err := New(scenarioConfig(StrategyNaive))
	require.NoError(t, err)
	cache := newFakeCache()
	a.Cache = cache

	_, err = a.FindPrimes(context.Background(), scenarioBuffer())
	require.NoError(t, err)

	// A different buffer digests to a different key and scans fresh.
	_, err = a.FindPrimes(context.Background(), []byte{9, 9, 9, 9})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.saves)
}

func TestFindPrimesCacheFailureDegradesToScan(t *testing.T) {
	a, err := New(scenarioConfig(StrategyNaive))
	require.NoError(t, err)
	cache := newFakeCache()
	cache.loadErr = errors.New("disk on fire")
	a.Cache = cache

	primes, err := a.FindPrimes(context.Background(), scenarioBuffer())
	require.NoError(t, err)
	assert.Equal(t, []int64{239, 251}, toInts(primes))
}

func TestOrdersPolicy(t *testing.T) {
	assert.Len(t, Config{Order: OrderMSF}.orders(), 1)
	assert.Len(t, Config{Order: OrderLSF}.orders(), 1)
	assert.Len(t, Config{Order: OrderBoth}.orders(), 2)
	assert.Len(t, Config{}.orders(), 2)
}

func toInts(ps []*big.Int) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.Int64()
	}
	return out
}
