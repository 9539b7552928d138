// Package catchy wraps fallible operations in retry-with-backoff and
// returns their results as immutable Outcome values instead of raising.
//
// The top-level functions run on the process default executor. Anonymous
// forms build their policy from options:
//
//	out := catchy.Try(ctx, fetchUser,
//		policy.MaxRetries(3),
//		policy.BaseDelay(100*time.Millisecond),
//		policy.Exponential(),
//	)
//
// Named forms resolve their policy from the executor's profile provider:
//
//	out := catchy.TryNamed(ctx, "fetch-user", fetchUser)
//
// Configure the default executor once at startup via Init; the
// subpackages expose the full surface for callers that need their own
// executors, observers, or budgets.
package catchy

import (
	"context"

	"github.com/justme8code/catchy/outcome"
	"github.com/justme8code/catchy/policy"
	"github.com/justme8code/catchy/retry"
)

// Init installs the process default executor. Call it before the Try
// functions are first used; later calls are ignored.
func Init(exec *retry.Executor) {
	retry.SetDefault(exec)
}

// Try runs op on the default executor with a policy built from opts and
// returns its Outcome. It never raises: exhaustion yields a Failure
// holding the last cause.
func Try[T any](ctx context.Context, op retry.OperationValue[T], opts ...policy.Option) outcome.Outcome[T] {
	return retry.DoValue(ctx, retry.DefaultExecutor(), policy.New(opts...), op)
}

// TryVoid runs op on the default executor with a policy built from opts.
// Unlike Try it reports failure as an error: exhaustion returns a
// *retry.ExhaustedError wrapping the last cause.
func TryVoid(ctx context.Context, op retry.Operation, opts ...policy.Option) error {
	return retry.DefaultExecutor().Do(ctx, policy.New(opts...), op)
}

// TryFunc runs fn against a fixed input on the default executor with a
// policy built from opts and returns the Outcome of the output.
func TryFunc[I, O any](ctx context.Context, in I, fn retry.OperationFunc[I, O], opts ...policy.Option) outcome.Outcome[O] {
	return retry.DoFunc(ctx, retry.DefaultExecutor(), policy.New(opts...), in, fn)
}

// TryNamed runs op under the named profile resolved by the default
// executor's provider. An unresolvable profile yields a Failure holding
// a *retry.ProfileError without invoking op.
func TryNamed[T any](ctx context.Context, name string, op retry.OperationValue[T]) outcome.Outcome[T] {
	return retry.DoValueNamed(ctx, retry.DefaultExecutor(), name, op)
}

// TryVoidNamed is the void form of TryNamed.
func TryVoidNamed(ctx context.Context, name string, op retry.Operation) error {
	return retry.DefaultExecutor().DoNamed(ctx, name, op)
}
