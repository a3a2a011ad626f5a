package scan

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zetatwo/primefind/internal/domain/bignum"
	"github.com/zetatwo/primefind/internal/ports"
)

// recordingObserver captures advisories and stage events for assertions.
type recordingObserver struct {
	mu         sync.Mutex
	advisories []string
	stages     []string
}

func (r *recordingObserver) StageStart(stage string, _ int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}
func (r *recordingObserver) StageProgress(string, int64) {}
func (r *recordingObserver) StageEnd(string)             {}
func (r *recordingObserver) Advisory(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advisories = append(r.advisories, msg)
}

func ints(ps []*big.Int) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.Int64()
	}
	return out
}

func TestHasNullRun(t *testing.T) {
	cases := []struct {
		name   string
		window []byte
		n      int
		want   bool
	}{
		{"no zeros", []byte{1, 2, 3}, 1, false},
		{"single zero hit", []byte{1, 0, 3}, 1, true},
		{"run too short", []byte{1, 0, 3, 0, 4}, 2, false},
		{"run at start", []byte{0, 0, 3}, 2, true},
		{"run at end", []byte{3, 0, 0}, 2, true},
		{"run split by nonzero", []byte{0, 1, 0}, 2, false},
		{"run longer than needed", []byte{5, 0, 0, 0, 5}, 2, true},
		{"n exceeds window", []byte{0, 0}, 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasNullRun(tc.window, tc.n))
		})
	}
}

func TestFindPrimesSingleByteWindows(t *testing.T) {
	// Single-byte windows make the expected prime set obvious.
	buf := []byte{2, 3, 4, 5, 6, 9, 13, 13}
	primes, err := FindPrimes(context.Background(), buf, Options{
		PrimeSize: 1,
		NullRun:   1,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 5, 13}, ints(primes))
}

func TestFindPrimesNullRunExclusion(t *testing.T) {
	// Both windows, {0x03, 0x00} and {0x00, 0x07}, contain a zero byte,
	// so a run length of 1 discards them before primality testing.
	buf := []byte{3, 0, 7}
	primes, err := FindPrimes(context.Background(), buf, Options{
		PrimeSize: 2,
		NullRun:   1,
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, primes)

	// With a longer required run the same windows survive.
	primes, err = FindPrimes(context.Background(), buf, Options{
		PrimeSize: 2,
		NullRun:   2,
		Orders:    []bignum.Order{bignum.MSF},
	}, nil)
	require.NoError(t, err)
	// 0x0300 = 768 composite, 0x0007 = 7 prime.
	assert.Equal(t, []int64{7}, ints(primes))
}

func TestFindPrimesBothOrders(t *testing.T) {
	// Window {0x02, 0xF5} is prime read MSF (757) and composite read LSF
	// (62722); window {0xF5, 0x02} is the mirror image. Either order alone
	// finds 757 from its own window, and both together still dedup to one.
	buf := []byte{0x02, 0xF5, 0x02}
	msfOnly, err := FindPrimes(context.Background(), buf, Options{
		PrimeSize: 2, NullRun: 1, Orders: []bignum.Order{bignum.MSF},
	}, nil)
	require.NoError(t, err)
	lsfOnly, err := FindPrimes(context.Background(), buf, Options{
		PrimeSize: 2, NullRun: 1, Orders: []bignum.Order{bignum.LSF},
	}, nil)
	require.NoError(t, err)
	both, err := FindPrimes(context.Background(), buf, Options{
		PrimeSize: 2, NullRun: 1,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{757}, ints(msfOnly))
	assert.Equal(t, []int64{757}, ints(lsfOnly))
	assert.Equal(t, []int64{757}, ints(both))
}

func TestFindPrimesDeduplicatesAcrossWindows(t *testing.T) {
	// The same prime value appears at two offsets and in both orders;
	// the set collapses them all.
	buf := []byte{7, 1, 7, 1, 7}
	primes, err := FindPrimes(context.Background(), buf, Options{
		PrimeSize: 1,
		NullRun:   1,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ints(primes))
}

// Determinism: the confirmed set must not depend on worker count.
func TestFindPrimesWorkerCountInvariant(t *testing.T) {
	buf := make([]byte, 4096)
	for i := range buf {
		buf[i] = byte(i*131 + 17)
	}
	var want []int64
	for _, workers := range []int{1, 2, 7, 32} {
		primes, err := FindPrimes(context.Background(), buf, Options{
			PrimeSize: 2,
			NullRun:   1,
			Workers:   workers,
		}, nil)
		require.NoError(t, err)
		got := ints(primes)
		if want == nil {
			want = got
			assert.NotEmpty(t, want)
			continue
		}
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

// Primality soundness: every confirmed prime survives a high-confidence
// audit independent of the pipeline's own two stages.
func TestFindPrimesSoundness(t *testing.T) {
	buf := make([]byte, 2048)
	for i := range buf {
		buf[i] = byte(i*89 + 3)
	}
	primes, err := FindPrimes(context.Background(), buf, Options{
		PrimeSize: 3,
		NullRun:   2,
	}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, primes)
	for _, p := range primes {
		assert.True(t, p.ProbablyPrime(40), "confirmed prime %s failed audit", p)
	}
}

func TestFindPrimesBufferTooSmall(t *testing.T) {
	_, err := FindPrimes(context.Background(), []byte{1, 2}, Options{
		PrimeSize: 3,
		NullRun:   1,
	}, nil)
	require.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestFindPrimesInvalidPrimeSize(t *testing.T) {
	_, err := FindPrimes(context.Background(), []byte{1, 2}, Options{
		PrimeSize: 0,
		NullRun:   1,
	}, nil)
	require.Error(t, err)
}

func TestFindPrimesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf := make([]byte, 1<<16)
	_, err := FindPrimes(ctx, buf, Options{PrimeSize: 2, NullRun: 1}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPairBudgetThreshold(t *testing.T) {
	// 1001 confirmed primes must warn at the default threshold; 999 and
	// the threshold itself must not.
	assert.True(t, exceedsPairBudget(1001, DefaultWarnThreshold))
	assert.False(t, exceedsPairBudget(1000, DefaultWarnThreshold))
	assert.False(t, exceedsPairBudget(999, DefaultWarnThreshold))
}

func TestFindPrimesAdvisoryEmitted(t *testing.T) {
	obs := &recordingObserver{}
	// Threshold of 1 with at least two confirmed primes fires the advisory.
	buf := []byte{2, 3, 5}
	_, err := FindPrimes(context.Background(), buf, Options{
		PrimeSize:     1,
		NullRun:       1,
		WarnThreshold: 1,
	}, obs)
	require.NoError(t, err)
	require.Len(t, obs.advisories, 1)
	assert.Contains(t, obs.advisories[0], "O(k²)")
	assert.Contains(t, obs.stages, ports.StageScan)

	// Same scan with a roomy threshold stays quiet.
	quiet := &recordingObserver{}
	_, err = FindPrimes(context.Background(), buf, Options{
		PrimeSize:     1,
		NullRun:       1,
		WarnThreshold: 100,
	}, quiet)
	require.NoError(t, err)
	assert.Empty(t, quiet.advisories)
}
