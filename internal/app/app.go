// Package app orchestrates the recovery pipeline: window scan, primality
// filter, composite index construction and product matching. It owns
// strategy selection and the optional prime cache; the cmd layer owns file
// I/O and presentation.
package app

import (
	"context"
	"fmt"
	"math/big"

	"github.com/cespare/xxhash/v2"

	"github.com/zetatwo/primefind/internal/adapters/ahocorasick"
	"github.com/zetatwo/primefind/internal/domain/composite"
	"github.com/zetatwo/primefind/internal/domain/match"
	"github.com/zetatwo/primefind/internal/domain/scan"
	"github.com/zetatwo/primefind/internal/ports"
)

// App runs scans with a fixed configuration. Observer and Cache are
// optional; a nil Observer discards telemetry and a nil Cache disables
// prime caching.
type App struct {
	cfg      Config
	Observer ports.Observer
	Cache    ports.PrimeCache
}

// Report is the outcome of a full pipeline run.
type Report struct {
	Primes  []*big.Int
	Matches []ports.Match
}

// New validates cfg and returns an App.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &App{cfg: cfg, Observer: ports.NopObserver{}}, nil
}

// FindPrimes returns the confirmed-prime set for buf, consulting the cache
// when one is attached. Cache failures degrade to a fresh scan; they are
// advisory, never fatal.
func (a *App) FindPrimes(ctx context.Context, buf []byte) ([]*big.Int, error) {
	obs := a.observer()

	var key ports.CacheKey
	if a.Cache != nil {
		key = a.cacheKey(buf)
		cached, err := a.Cache.LoadPrimes(key)
		if err != nil {
			obs.Advisory(fmt.Sprintf("prime cache read failed: %v", err))
		} else if cached != nil {
			obs.Advisory(fmt.Sprintf("prime cache hit: %d primes, scan skipped", len(cached)))
			return cached, nil
		}
	}

	primes, err := scan.FindPrimes(ctx, buf, scan.Options{
		PrimeSize:     a.cfg.PrimeSize,
		NullRun:       a.cfg.NullRun,
		Orders:        a.cfg.orders(),
		Workers:       a.cfg.Workers,
		Stage1Rounds:  a.cfg.Stage1Rounds,
		Stage2Rounds:  a.cfg.Stage2Rounds,
		WarnThreshold: a.cfg.WarnThreshold,
	}, obs)
	if err != nil {
		return nil, err
	}

	if a.Cache != nil {
		if err := a.Cache.SavePrimes(key, primes); err != nil {
			obs.Advisory(fmt.Sprintf("prime cache write failed: %v", err))
		}
	}
	return primes, nil
}

// Run executes the full pipeline against buf.
func (a *App) Run(ctx context.Context, buf []byte) (*Report, error) {
	matcher, err := a.matcher()
	if err != nil {
		return nil, err
	}

	primes, err := a.FindPrimes(ctx, buf)
	if err != nil {
		return nil, err
	}

	obs := a.observer()
	idx, err := composite.Build(ctx, primes, a.cfg.PrimeSize, a.cfg.Workers, obs)
	if err != nil {
		return nil, err
	}

	obs.StageStart(ports.StageMatch, int64(len(buf)))
	matches, err := matcher.Match(ctx, buf, idx)
	obs.StageEnd(ports.StageMatch)
	if err != nil {
		return nil, err
	}

	return &Report{Primes: primes, Matches: matches}, nil
}

// matcher instantiates the configured strategy.
func (a *App) matcher() (ports.Matcher, error) {
	switch a.cfg.strategy() {
	case StrategyNaive:
		return &match.Naive{Workers: a.cfg.Workers}, nil
	case StrategyAutomaton:
		return &ahocorasick.Matcher{}, nil
	case StrategyRolling:
		return &match.Rolling{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher strategy %q", a.cfg.Strategy)
	}
}

// cacheKey derives the cache identity of buf under the current config.
func (a *App) cacheKey(buf []byte) ports.CacheKey {
	return ports.CacheKey{
		Digest:       xxhash.Sum64(buf),
		PrimeSize:    a.cfg.PrimeSize,
		NullRun:      a.cfg.NullRun,
		Order:        a.cfg.order(),
		Stage1Rounds: a.cfg.stage1Rounds(),
		Stage2Rounds: a.cfg.stage2Rounds(),
	}
}

func (a *App) observer() ports.Observer {
	if a.Observer == nil {
		return ports.NopObserver{}
	}
	return a.Observer
}
