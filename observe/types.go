// Package observe defines the observer contract the executor reports
// through, plus context plumbing for attempt metadata and timeline
// capture. Implementations must be safe for concurrent use; the
// executor may run calls from many goroutines against one observer.
package observe

import (
	"context"
	"time"

	"github.com/justme8code/catchy/policy"
)

// CallInfo identifies one logical call through the executor. The same
// value is passed to every callback for that call.
type CallInfo struct {
	// ID is unique per call.
	ID string

	// Name is the profile name for named calls, empty otherwise.
	Name string

	// Policy is the normalized policy governing the call.
	Policy policy.Policy

	// Start is when the executor began the call.
	Start time.Time
}

// AttemptRecord describes a single finished attempt.
type AttemptRecord struct {
	// Attempt numbers attempts from 1.
	Attempt int

	Start time.Time
	End   time.Time

	// Err is nil when the attempt succeeded.
	Err error

	// Backoff is the wait served before this attempt began. It is zero
	// for the first attempt.
	Backoff time.Duration
}

// Observer receives lifecycle callbacks from the executor. Per call it
// sees OnStart once, OnAttempt once per attempt, and then exactly one
// of OnSuccess or OnFailure.
type Observer interface {
	OnStart(ctx context.Context, info CallInfo)
	OnAttempt(ctx context.Context, info CallInfo, rec AttemptRecord)
	OnSuccess(ctx context.Context, info CallInfo, attempts int)
	OnFailure(ctx context.Context, info CallInfo, attempts int, err error)
}
