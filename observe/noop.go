package observe

import "context"

// NoopObserver ignores every callback. It is the executor's default.
type NoopObserver struct{}

var _ Observer = NoopObserver{}

func (NoopObserver) OnStart(context.Context, CallInfo) {}

func (NoopObserver) OnAttempt(context.Context, CallInfo, AttemptRecord) {}

func (NoopObserver) OnSuccess(context.Context, CallInfo, int) {}

func (NoopObserver) OnFailure(context.Context, CallInfo, int, error) {}
