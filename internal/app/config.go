package app

import (
	"fmt"

	"github.com/zetatwo/primefind/internal/domain/bignum"
	"github.com/zetatwo/primefind/internal/domain/scan"
)

// Matcher strategy names as exposed in configuration.
const (
	StrategyNaive     = "naive"
	StrategyAutomaton = "automaton"
	StrategyRolling   = "rolling"
)

// Byte-order policy names.
const (
	OrderMSF  = "msf"
	OrderLSF  = "lsf"
	OrderBoth = "both"
)

// Config is the full scan configuration. Zero values for optional fields
// select defaults; PrimeSize and NullRun are required.
type Config struct {
	PrimeSize     int    // window width in bytes
	NullRun       int    // disqualifying zero-run length
	Order         string // msf, lsf or both (default both)
	Strategy      string // naive, automaton or rolling (default automaton)
	Workers       int    // 0 means GOMAXPROCS
	Stage1Rounds  int    // 0 means scan.DefaultStage1Rounds
	Stage2Rounds  int    // 0 means scan.DefaultStage2Rounds
	WarnThreshold int    // 0 means scan.DefaultWarnThreshold
}

// Validate reports the first configuration error. All validation happens
// before any scanning begins.
func (c Config) Validate() error {
	if c.PrimeSize <= 0 {
		return fmt.Errorf("prime size must be positive, got %d", c.PrimeSize)
	}
	if c.NullRun <= 0 {
		return fmt.Errorf("null filter length must be positive, got %d", c.NullRun)
	}
	switch c.Order {
	case "", OrderMSF, OrderLSF, OrderBoth:
	default:
		return fmt.Errorf("unknown byte order %q (want msf, lsf or both)", c.Order)
	}
	switch c.Strategy {
	case "", StrategyNaive, StrategyAutomaton, StrategyRolling:
	default:
		return fmt.Errorf("unknown matcher strategy %q (want naive, automaton or rolling)", c.Strategy)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// order returns the policy name with the default applied.
func (c Config) order() string {
	if c.Order == "" {
		return OrderBoth
	}
	return c.Order
}

// orders expands the policy into the byte orders tested per window.
func (c Config) orders() []bignum.Order {
	switch c.order() {
	case OrderMSF:
		return []bignum.Order{bignum.MSF}
	case OrderLSF:
		return []bignum.Order{bignum.LSF}
	default:
		return []bignum.Order{bignum.MSF, bignum.LSF}
	}
}

// stage1Rounds and stage2Rounds return the round counts with defaults
// applied, so cache keys agree between defaulted and explicit configs.
func (c Config) stage1Rounds() int {
	if c.Stage1Rounds == 0 {
		return scan.DefaultStage1Rounds
	}
	return c.Stage1Rounds
}

func (c Config) stage2Rounds() int {
	if c.Stage2Rounds == 0 {
		return scan.DefaultStage2Rounds
	}
	return c.Stage2Rounds
}

// strategy returns the matcher name with the default applied.
func (c Config) strategy() string {
	if c.Strategy == "" {
		return StrategyAutomaton
	}
	return c.Strategy
}
