package observe

import (
	"context"
	"sync/atomic"
	"time"
)

// Timeline is the full attempt history of one finished call.
type Timeline struct {
	// ID and Name mirror the CallInfo of the call.
	ID   string
	Name string

	Start time.Time
	End   time.Time

	// Attempts holds one record per attempt, in order.
	Attempts []AttemptRecord

	// Err is the terminal error, nil when the call succeeded.
	Err error
}

// TimelineCapture holds a captured timeline after a call completes.
//
// Timeline reports ok=false until the call completes (or if capture
// was never requested for the call).
type TimelineCapture struct {
	tl atomic.Pointer[Timeline]
}

// Timeline returns the captured timeline. It is safe for concurrent
// use with the executor publishing the result.
func (c *TimelineCapture) Timeline() (Timeline, bool) {
	if c == nil {
		return Timeline{}, false
	}
	tl := c.tl.Load()
	if tl == nil {
		return Timeline{}, false
	}
	return *tl, true
}

// store publishes the finished timeline. Unexported to discourage
// direct mutation; other packages go through StoreTimelineCapture.
func (c *TimelineCapture) store(tl Timeline) {
	if c == nil {
		return
	}
	c.tl.Store(&tl)
}

type timelineCaptureKey struct{}

// WithTimelineCapture returns a derived context that requests timeline
// capture for the next call, plus the holder the finished timeline is
// published to.
func WithTimelineCapture(ctx context.Context) (context.Context, *TimelineCapture) {
	if ctx == nil {
		ctx = context.Background()
	}
	capture := &TimelineCapture{}
	return context.WithValue(ctx, timelineCaptureKey{}, capture), capture
}

// TimelineCaptureFromContext returns the capture, if one was requested.
//
// This is primarily used by the executor.
func TimelineCaptureFromContext(ctx context.Context) (*TimelineCapture, bool) {
	if ctx == nil {
		return nil, false
	}
	switch v := ctx.Value(timelineCaptureKey{}).(type) {
	case *TimelineCapture:
		return v, v != nil
	default:
		return nil, false
	}
}

type disabledTimelineCapture struct{}

// WithoutTimelineCapture disables timeline capture in derived contexts.
//
// The executor uses this when constructing the per-attempt context
// passed to an operation, so nested calls cannot reuse the same
// capture.
func WithoutTimelineCapture(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, timelineCaptureKey{}, disabledTimelineCapture{})
}

// StoreTimelineCapture publishes the finished timeline into the capture.
//
// This is primarily used by the executor.
func StoreTimelineCapture(capture *TimelineCapture, tl Timeline) {
	if capture == nil {
		return
	}
	capture.store(tl)
}
