package retry

import (
	"fmt"
	"math"
	"time"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	MaxAttempts   int           // total attempts including the first
	InitialDelay  time.Duration // delay before the second attempt
	BackoffFactor float64       // multiplier applied per additional attempt
}

// DefaultPolicy returns a sensible default policy (3 attempts, 1s initial, factor 2).
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, InitialDelay: time.Second, BackoffFactor: 2.0}
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall
// back to defaults.
func NewPolicy(maxAttempts int, initialDelay time.Duration, backoffFactor float64) Policy {
	p := DefaultPolicy()
	if maxAttempts >= 1 {
		p.MaxAttempts = maxAttempts
	}
	if initialDelay > 0 {
		p.InitialDelay = initialDelay
	}
	if backoffFactor >= 1.0 {
		p.BackoffFactor = backoffFactor
	}
	return p
}

// Delay returns the backoff delay taken after the given failed attempt
// (1-based). Delays grow geometrically, rounded to millisecond resolution,
// and never decrease across attempts while BackoffFactor >= 1.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	scaled := float64(p.InitialDelay.Milliseconds()) * math.Pow(p.BackoffFactor, float64(attempt-1))
	return time.Duration(math.Round(scaled)) * time.Millisecond
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >=1")
	}
	if p.InitialDelay <= 0 {
		return fmt.Errorf("initial delay must be >0")
	}
	if p.BackoffFactor < 1.0 {
		return fmt.Errorf("backoff factor must be >=1.0")
	}
	return nil
}
