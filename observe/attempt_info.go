package observe

import "context"

type attemptInfoKey struct{}

// AttemptInfo is per-attempt metadata attached to the context an
// operation runs under.
type AttemptInfo struct {
	// CallID matches CallInfo.ID for the surrounding call.
	CallID string

	// Attempt numbers attempts from 1.
	Attempt int

	// MaxAttempts is the total attempts the policy allows.
	MaxAttempts int
}

// WithAttemptInfo returns a context derived from ctx that carries info.
func WithAttemptInfo(ctx context.Context, info AttemptInfo) context.Context {
	return context.WithValue(ctx, attemptInfoKey{}, info)
}

// AttemptFromContext returns the AttemptInfo from ctx, if present.
func AttemptFromContext(ctx context.Context) (AttemptInfo, bool) {
	info, ok := ctx.Value(attemptInfoKey{}).(AttemptInfo)
	return info, ok
}
