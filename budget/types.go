// Package budget provides opt-in gating of retries. A policy that names a
// budget has every retry (never the first attempt) checked against it, so a
// fleet of callers cannot amplify an outage into a retry storm.
package budget

import "context"

// Standard Decision.Reason strings.
const (
	ReasonAllowed  = "allowed"
	ReasonDenied   = "denied"
	ReasonNoBudget = "no_budget"
	ReasonNotFound = "budget_not_found"
	ReasonNil      = "budget_nil"
)

// Decision is the result of a budget check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Budget gates retries. AllowRetry is consulted before every retry of a
// call whose policy names this budget; name identifies the call (its
// profile name, empty for anonymous calls) and attempt is the 1-based
// index of the attempt that just failed. Implementations must be safe for
// concurrent use.
type Budget interface {
	AllowRetry(ctx context.Context, name string, attempt int) Decision
}
