// Package retry runs operations under a retry policy: a bounded number
// of attempts with a constant or exponentially growing wait in between.
// The void form reports the terminal failure as an error; the value
// forms resolve to an outcome.Outcome.
package retry

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/justme8code/catchy/budget"
	"github.com/justme8code/catchy/failure"
	"github.com/justme8code/catchy/observe"
	"github.com/justme8code/catchy/outcome"
	"github.com/justme8code/catchy/policy"
	"github.com/justme8code/catchy/profile"
)

// Operation is a retried side-effecting call.
type Operation func(ctx context.Context) error

// OperationValue is a retried call producing a value.
type OperationValue[T any] func(ctx context.Context) (T, error)

// OperationFunc is a retried call applied to a fixed input on every
// attempt.
type OperationFunc[I, O any] func(ctx context.Context, in I) (O, error)

// Executor runs operations under retry policies. The zero Executor is
// fully usable: wall clock, real sleeps, panic recovery on, no
// observer, no budgets, no profiles.
type Executor struct {
	provider profile.Provider
	observer observe.Observer
	budgets  *budget.Registry
	clock    func() time.Time
	sleep    func(context.Context, time.Duration) error

	// Inverted so the zero value keeps recovery enabled.
	disableRecover bool
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithProvider sets the profile provider used by the named entry points.
func WithProvider(p profile.Provider) ExecutorOption {
	return func(e *Executor) {
		e.provider = p
	}
}

// WithObserver sets the observer receiving call lifecycle callbacks.
func WithObserver(o observe.Observer) ExecutorOption {
	return func(e *Executor) {
		e.observer = o
	}
}

// WithBudgets sets the registry consulted for policies that name a
// retry budget.
func WithBudgets(r *budget.Registry) ExecutorOption {
	return func(e *Executor) {
		e.budgets = r
	}
}

// WithClock sets the clock used for attempt timestamps.
func WithClock(fn func() time.Time) ExecutorOption {
	return func(e *Executor) {
		e.clock = fn
	}
}

// WithRecoverPanics sets whether panics in operations are captured and
// reported as *failure.PanicError. Enabled by default; disabling lets
// panics propagate to the caller.
func WithRecoverPanics(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.disableRecover = !enabled
	}
}

// NewExecutor builds an Executor. Nil options are skipped.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *Executor) now() time.Time {
	if e == nil || e.clock == nil {
		return time.Now()
	}
	return e.clock()
}

func (e *Executor) sleepFor(ctx context.Context, d time.Duration) error {
	if e == nil || e.sleep == nil {
		return sleepWithContext(ctx, d)
	}
	return e.sleep(ctx, d)
}

func (e *Executor) obs() observe.Observer {
	if e == nil || e.observer == nil {
		return observe.NoopObserver{}
	}
	return e.observer
}

func (e *Executor) recoverEnabled() bool {
	return e == nil || !e.disableRecover
}

// Do runs op until it succeeds or the policy is spent. It returns nil
// on success; otherwise *ExhaustedError, *InterruptedError or
// *BudgetError describe how the call ended.
func (e *Executor) Do(ctx context.Context, pol policy.Policy, op Operation) error {
	if op == nil {
		return fmt.Errorf("catchy: operation: %w", failure.ErrNilReference)
	}
	_, err := run(ctx, e, "", pol, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue runs op until it succeeds or the policy is spent and resolves
// the result as an Outcome. Exhaustion yields the bare transformed
// cause; interruption and budget denial yield their typed errors.
func DoValue[T any](ctx context.Context, e *Executor, pol policy.Policy, op OperationValue[T]) outcome.Outcome[T] {
	if op == nil {
		return outcome.Failure[T](fmt.Errorf("catchy: operation: %w", failure.ErrNilReference))
	}
	val, err := run(ctx, e, "", pol, op)
	return resolve(val, err)
}

// DoFunc is DoValue for an operation that consumes a fixed input on
// every attempt.
func DoFunc[I, O any](ctx context.Context, e *Executor, pol policy.Policy, in I, fn OperationFunc[I, O]) outcome.Outcome[O] {
	if fn == nil {
		return outcome.Failure[O](fmt.Errorf("catchy: operation: %w", failure.ErrNilReference))
	}
	return DoValue(ctx, e, pol, func(ctx context.Context) (O, error) {
		return fn(ctx, in)
	})
}

// DoNamed is Do with the policy resolved from the executor's profile
// provider. A failed lookup returns *ProfileError before any attempt.
func (e *Executor) DoNamed(ctx context.Context, name string, op Operation) error {
	pol, err := e.resolveProfile(ctx, name)
	if err != nil {
		return err
	}
	if op == nil {
		return fmt.Errorf("catchy: operation: %w", failure.ErrNilReference)
	}
	_, rerr := run(ctx, e, name, pol, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return rerr
}

// DoValueNamed is DoValue with the policy resolved from the executor's
// profile provider.
func DoValueNamed[T any](ctx context.Context, e *Executor, name string, op OperationValue[T]) outcome.Outcome[T] {
	pol, err := e.resolveProfile(ctx, name)
	if err != nil {
		return outcome.Failure[T](err)
	}
	if op == nil {
		return outcome.Failure[T](fmt.Errorf("catchy: operation: %w", failure.ErrNilReference))
	}
	val, rerr := run(ctx, e, name, pol, op)
	return resolve(val, rerr)
}

// resolve maps the terminal state of run onto an Outcome. Exhaustion
// unwraps to the bare transformed cause; every other terminal error is
// the cause itself.
func resolve[T any](val T, err error) outcome.Outcome[T] {
	if err == nil {
		return outcome.Success(val)
	}
	if ex, ok := err.(*ExhaustedError); ok {
		return outcome.Failure[T](ex.Err)
	}
	return outcome.Failure[T](err)
}

func (e *Executor) resolveProfile(ctx context.Context, name string) (pol policy.Policy, err error) {
	var p profile.Provider
	if e != nil {
		p = e.provider
	}
	if p == nil {
		return policy.Policy{}, &ProfileError{Name: name, Err: profile.ErrNotFound}
	}

	if e.recoverEnabled() {
		defer func() {
			if r := recover(); r != nil {
				pol = policy.Policy{}
				err = &ProfileError{Name: name, Err: &failure.PanicError{Value: r, Stack: debug.Stack()}}
			}
		}()
	}

	pol, perr := p.Policy(ctx, name)
	if perr != nil {
		return policy.Policy{}, &ProfileError{Name: name, Err: perr}
	}
	return pol, nil
}

// run is the attempt loop shared by every entry point. It returns the
// operation's value on success; on failure the error is one of the
// typed terminal errors and the value is the zero T.
//
// Cancellation is only honored between attempts, while waiting: an
// in-flight attempt is never preempted (operations may honor ctx
// themselves), and at least one attempt always runs.
func run[T any](ctx context.Context, e *Executor, name string, pol policy.Policy, op OperationValue[T]) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	pol = pol.Normalize()
	attempts := pol.MaxRetries + 1

	info := observe.CallInfo{
		ID:     uuid.NewString(),
		Name:   name,
		Policy: pol,
		Start:  e.now(),
	}
	obs := e.obs()

	capture, hasCapture := observe.TimelineCaptureFromContext(ctx)
	var records []observe.AttemptRecord
	if hasCapture {
		records = make([]observe.AttemptRecord, 0, attempts)
	}
	finish := func(end time.Time, terminal error) {
		if hasCapture {
			observe.StoreTimelineCapture(capture, observe.Timeline{
				ID:       info.ID,
				Name:     name,
				Start:    info.Start,
				End:      end,
				Attempts: records,
				Err:      terminal,
			})
		}
	}

	obs.OnStart(ctx, info)

	var (
		zero    T
		lastErr error
		backoff time.Duration
	)

	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx := observe.WithAttemptInfo(observe.WithoutTimelineCapture(ctx), observe.AttemptInfo{
			CallID:      info.ID,
			Attempt:     attempt,
			MaxAttempts: attempts,
		})

		started := e.now()
		val, err := invoke(attemptCtx, e.recoverEnabled(), op)
		rec := observe.AttemptRecord{
			Attempt: attempt,
			Start:   started,
			End:     e.now(),
			Err:     err,
			Backoff: backoff,
		}
		if hasCapture {
			records = append(records, rec)
		}
		obs.OnAttempt(ctx, info, rec)

		if err == nil {
			finish(rec.End, nil)
			obs.OnSuccess(ctx, info, attempt)
			return val, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		if d := e.allowRetry(ctx, pol.Budget, name, attempt); !d.Allowed {
			berr := &BudgetError{
				Name:     pol.Budget,
				Reason:   d.Reason,
				Attempts: attempt,
				Err:      pol.Transform.Apply(lastErr),
			}
			finish(e.now(), berr)
			obs.OnFailure(ctx, info, attempt, berr)
			return zero, berr
		}

		backoff = pol.Delay(attempt)
		if backoff > 0 {
			if err := e.sleepFor(ctx, backoff); err != nil {
				ierr := &InterruptedError{
					Attempts: attempt,
					Cause:    pol.Transform.Apply(lastErr),
					Err:      err,
				}
				finish(e.now(), ierr)
				obs.OnFailure(ctx, info, attempt, ierr)
				return zero, ierr
			}
		}
	}

	exhausted := &ExhaustedError{
		Attempts: attempts,
		Err:      pol.Transform.Apply(lastErr),
	}
	finish(e.now(), exhausted)
	obs.OnFailure(ctx, info, attempts, exhausted)
	return zero, exhausted
}

// invoke runs one attempt, converting a panic into *failure.PanicError
// when recovery is enabled.
func invoke[T any](ctx context.Context, recoverPanics bool, op OperationValue[T]) (val T, err error) {
	if recoverPanics {
		defer func() {
			if r := recover(); r != nil {
				err = &failure.PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
	}
	return op(ctx)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)

	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C: // drain a pending tick so the channel does not retain it
			default:
			}
		}
	}()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
