package policy

import (
	"time"

	"github.com/justme8code/catchy/failure"
)

// Option mutates a Policy under construction.
type Option func(*Policy)

// New builds a Policy by applying opts over Default().
func New(opts ...Option) Policy {
	p := Default()
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

// MaxRetries sets the number of retries after the first attempt.
func MaxRetries(n int) Option {
	return func(p *Policy) { p.MaxRetries = n }
}

// BaseDelay sets the wait between failed attempts.
func BaseDelay(d time.Duration) Option {
	return func(p *Policy) { p.BaseDelay = d }
}

// Exponential enables geometric backoff: the wait doubles per attempt.
func Exponential() Option {
	return func(p *Policy) { p.Exponential = true }
}

// MaxDelay caps each computed delay.
func MaxDelay(d time.Duration) Option {
	return func(p *Policy) { p.MaxDelay = d }
}

// Budget names the retry budget that gates retries for this policy.
func Budget(name string) Option {
	return func(p *Policy) { p.Budget = name }
}

// Transform installs the terminal-cause rewrite hook.
func Transform(t failure.Transform) Option {
	return func(p *Policy) { p.Transform = t }
}
