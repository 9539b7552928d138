// Package policy holds the retry configuration schema: how many times to
// retry, how long to wait between attempts, and how the terminal cause is
// rewritten. A Policy is pure configuration, passed by value; it carries no
// state between calls.
package policy

import (
	"math"
	"time"

	"github.com/justme8code/catchy/failure"
)

// Policy configures a single retried call.
//
// The zero value is a valid policy: one attempt, no delay, no budget, no
// transform.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// A call performs at most MaxRetries+1 attempts and never fewer than one.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// BaseDelay is the wait after a failed attempt. With Exponential set the
	// wait doubles per attempt: BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
	BaseDelay time.Duration `yaml:"base_delay" json:"base_delay"`

	// Exponential selects geometric backoff instead of a constant delay.
	Exponential bool `yaml:"exponential" json:"exponential"`

	// MaxDelay caps each computed delay when > 0.
	MaxDelay time.Duration `yaml:"max_delay" json:"max_delay"`

	// Budget names a retry budget in the executor's registry. Empty means
	// retries are not budget-gated.
	Budget string `yaml:"budget,omitempty" json:"budget,omitempty"`

	// Transform rewrites the terminal cause before it is reported.
	Transform failure.Transform `yaml:"-" json:"-"`
}

// Ceilings applied by Normalize. Values past these points buy nothing and
// usually indicate a config typo (hours in a millisecond field).
const (
	MaxRetriesCeiling = 100
	DelayCeiling      = 5 * time.Minute
)

// Default returns the zero policy: one attempt, no delay.
func Default() Policy {
	return Policy{}
}

// Normalize clamps out-of-range fields instead of rejecting them. Negative
// counts and delays become 0; MaxRetries and the delay fields are capped at
// the package ceilings. The executor normalizes every policy on entry, so
// callers holding odd values still get at least one attempt and bounded
// waits.
func (p Policy) Normalize() Policy {
	n := p
	if n.MaxRetries < 0 {
		n.MaxRetries = 0
	}
	if n.MaxRetries > MaxRetriesCeiling {
		n.MaxRetries = MaxRetriesCeiling
	}
	if n.BaseDelay < 0 {
		n.BaseDelay = 0
	}
	if n.BaseDelay > DelayCeiling {
		n.BaseDelay = DelayCeiling
	}
	if n.MaxDelay < 0 {
		n.MaxDelay = 0
	}
	if n.MaxDelay > DelayCeiling {
		n.MaxDelay = DelayCeiling
	}
	return n
}

// Validate is the strict sibling of Normalize for configuration surfaces:
// instead of silently clamping it reports the first offending field.
func (p Policy) Validate() error {
	switch {
	case p.MaxRetries < 0:
		return &ValidationError{Field: "max_retries", Value: p.MaxRetries, Reason: "must not be negative"}
	case p.MaxRetries > MaxRetriesCeiling:
		return &ValidationError{Field: "max_retries", Value: p.MaxRetries, Reason: "exceeds ceiling of 100"}
	case p.BaseDelay < 0:
		return &ValidationError{Field: "base_delay", Value: p.BaseDelay, Reason: "must not be negative"}
	case p.BaseDelay > DelayCeiling:
		return &ValidationError{Field: "base_delay", Value: p.BaseDelay, Reason: "exceeds ceiling of 5m"}
	case p.MaxDelay < 0:
		return &ValidationError{Field: "max_delay", Value: p.MaxDelay, Reason: "must not be negative"}
	case p.MaxDelay > DelayCeiling:
		return &ValidationError{Field: "max_delay", Value: p.MaxDelay, Reason: "exceeds ceiling of 5m"}
	}
	return nil
}

// Delay returns the wait served after the given failed attempt, where
// attempt is 1-based. Constant mode waits BaseDelay every time; exponential
// mode waits BaseDelay<<(attempt-1), pinned on overflow and capped at
// MaxDelay when MaxDelay > 0. The delay sequence is deterministic: no
// jitter.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 || p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay
	if p.Exponential {
		for i := 1; i < attempt; i++ {
			if d >= math.MaxInt64/2 {
				d = math.MaxInt64
				break
			}
			d <<= 1
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}
