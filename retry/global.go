package retry

import (
	"log/slog"
	"sync"
)

var (
	defaultOnce sync.Once
	defaultExec *Executor
)

// DefaultExecutor returns the shared, lazily initialized executor used
// by the package-level helpers. Unless SetDefault ran first it is a
// zero executor: real clock, panic recovery on, no observer.
func DefaultExecutor() *Executor {
	defaultOnce.Do(func() {
		if defaultExec == nil {
			defaultExec = NewExecutor()
		}
	})
	return defaultExec
}

// SetDefault installs the shared executor. Call it at startup, before
// anything uses DefaultExecutor; once the default is initialized the
// call warns and changes nothing.
//
// The initialized check is not strictly race-free against a concurrent
// DefaultExecutor, which is acceptable for startup-time configuration.
func SetDefault(exec *Executor) {
	if exec == nil {
		return
	}
	if defaultExec != nil {
		slog.Warn("catchy: SetDefault called after the default executor was initialized; ignoring")
		return
	}
	defaultOnce.Do(func() {
		defaultExec = exec
	})
}
