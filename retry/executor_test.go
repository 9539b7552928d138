package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justme8code/catchy/failure"
	"github.com/justme8code/catchy/policy"
)

var errBoom = errors.New("boom")

// newTestExecutor returns an executor whose sleeps return instantly.
func newTestExecutor() *Executor {
	exec := NewExecutor()
	exec.sleep = func(context.Context, time.Duration) error { return nil }
	return exec
}

func TestExecutor_Do_Trivial(t *testing.T) {
	exec := NewExecutor()
	called := false
	err := exec.Do(context.Background(), policy.Policy{}, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("unexpected result: err=%v called=%v", err, called)
	}
}

func TestExecutor_Do_ZeroRetries_OneAttempt(t *testing.T) {
	exec := newTestExecutor()

	calls := 0
	err := exec.Do(context.Background(), policy.Policy{MaxRetries: 0}, func(context.Context) error {
		calls++
		return errBoom
	})
	if calls != 1 {
		t.Fatalf("calls=%d, want 1", calls)
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("err=%T, want *ExhaustedError", err)
	}
	if ex.Attempts != 1 {
		t.Fatalf("attempts=%d, want 1", ex.Attempts)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("err=%v, want wrapped boom", err)
	}
}

func TestExecutor_Do_RetriesThenExhausts(t *testing.T) {
	exec := newTestExecutor()

	calls := 0
	err := exec.Do(context.Background(), policy.Policy{MaxRetries: 2}, func(context.Context) error {
		calls++
		return errBoom
	})
	if calls != 3 {
		t.Fatalf("calls=%d, want 3", calls)
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) || ex.Attempts != 3 {
		t.Fatalf("err=%v, want *ExhaustedError with 3 attempts", err)
	}
}

func TestExecutor_Do_StopsOnSuccess(t *testing.T) {
	exec := newTestExecutor()

	calls := 0
	err := exec.Do(context.Background(), policy.Policy{MaxRetries: 4}, func(context.Context) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
	if calls != 3 {
		t.Fatalf("calls=%d, want 3", calls)
	}
}

func TestExecutor_NegativeRetries_StillOneAttempt(t *testing.T) {
	exec := newTestExecutor()

	calls := 0
	err := exec.Do(context.Background(), policy.Policy{MaxRetries: -5}, func(context.Context) error {
		calls++
		return errBoom
	})
	if calls != 1 {
		t.Fatalf("calls=%d, want 1", calls)
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) || ex.Attempts != 1 {
		t.Fatalf("err=%v, want *ExhaustedError with 1 attempt", err)
	}
}

func TestDoValue_SuccessAfterRetries(t *testing.T) {
	exec := newTestExecutor()

	calls := 0
	out := DoValue(context.Background(), exec, policy.Policy{MaxRetries: 4}, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errBoom
		}
		return 42, nil
	})
	if out.IsFailure() {
		t.Fatalf("cause=%v, want success", out.Cause())
	}
	if out.Value() != 42 {
		t.Fatalf("value=%d, want 42", out.Value())
	}
	if calls != 3 {
		t.Fatalf("calls=%d, want 3", calls)
	}
}

func TestDoValue_ExhaustionYieldsBareCause(t *testing.T) {
	exec := newTestExecutor()

	out := DoValue(context.Background(), exec, policy.Policy{MaxRetries: 2}, func(context.Context) (string, error) {
		return "", errBoom
	})
	if !out.IsFailure() {
		t.Fatalf("expected failure")
	}
	// The outcome carries the cause itself, not the exhaustion wrapper.
	if out.Cause() != errBoom {
		t.Fatalf("cause=%v (%T), want boom", out.Cause(), out.Cause())
	}
}

func TestDoValue_NilExecutorUsesDefaults(t *testing.T) {
	out := DoValue(context.Background(), nil, policy.Policy{}, func(context.Context) (int, error) {
		return 7, nil
	})
	if out.IsFailure() || out.Value() != 7 {
		t.Fatalf("out=%v, want success 7", out)
	}
}

func TestDoFunc_AppliesFixedInput(t *testing.T) {
	exec := newTestExecutor()

	calls := 0
	out := DoFunc(context.Background(), exec, policy.Policy{MaxRetries: 2}, 21, func(_ context.Context, in int) (int, error) {
		calls++
		if calls < 2 {
			return 0, errBoom
		}
		return in * 2, nil
	})
	if out.IsFailure() {
		t.Fatalf("cause=%v, want success", out.Cause())
	}
	if out.Value() != 42 {
		t.Fatalf("value=%d, want 42", out.Value())
	}
}

func TestExecutor_Backoff_ConstantSequence(t *testing.T) {
	exec := NewExecutor()
	var sleeps []time.Duration
	exec.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	pol := policy.Policy{MaxRetries: 3, BaseDelay: 100 * time.Millisecond}
	_ = exec.Do(context.Background(), pol, func(context.Context) error { return errBoom })

	want := []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps=%v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("sleeps=%v, want %v", sleeps, want)
		}
	}
}

func TestExecutor_Backoff_ExponentialSequence(t *testing.T) {
	exec := NewExecutor()
	var sleeps []time.Duration
	exec.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	pol := policy.Policy{MaxRetries: 3, BaseDelay: 100 * time.Millisecond, Exponential: true}
	_ = exec.Do(context.Background(), pol, func(context.Context) error { return errBoom })

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps=%v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("sleeps=%v, want %v", sleeps, want)
		}
	}
}

func TestExecutor_Backoff_MaxDelayCap(t *testing.T) {
	exec := NewExecutor()
	var sleeps []time.Duration
	exec.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	pol := policy.Policy{
		MaxRetries:  3,
		BaseDelay:   100 * time.Millisecond,
		Exponential: true,
		MaxDelay:    150 * time.Millisecond,
	}
	_ = exec.Do(context.Background(), pol, func(context.Context) error { return errBoom })

	want := []time.Duration{100 * time.Millisecond, 150 * time.Millisecond, 150 * time.Millisecond}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps=%v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("sleeps=%v, want %v", sleeps, want)
		}
	}
}

func TestExecutor_ZeroDelay_NeverSleeps(t *testing.T) {
	exec := NewExecutor()
	exec.sleep = func(context.Context, time.Duration) error {
		t.Fatalf("sleep should not be called for zero delays")
		return nil
	}

	calls := 0
	_ = exec.Do(context.Background(), policy.Policy{MaxRetries: 3}, func(context.Context) error {
		calls++
		return errBoom
	})
	if calls != 4 {
		t.Fatalf("calls=%d, want 4", calls)
	}
}

func TestExecutor_NoDelayAfterFinalAttempt(t *testing.T) {
	exec := NewExecutor()
	sleeps := 0
	exec.sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}

	pol := policy.Policy{MaxRetries: 2, BaseDelay: 10 * time.Millisecond}
	_ = exec.Do(context.Background(), pol, func(context.Context) error { return errBoom })

	// Three attempts, but only two waits: none after the last failure.
	if sleeps != 2 {
		t.Fatalf("sleeps=%d, want 2", sleeps)
	}
}

func TestExecutor_NoDelayAfterSuccess(t *testing.T) {
	exec := NewExecutor()
	exec.sleep = func(context.Context, time.Duration) error {
		t.Fatalf("sleep should not be called after success")
		return nil
	}

	pol := policy.Policy{MaxRetries: 2, BaseDelay: 10 * time.Millisecond}
	err := exec.Do(context.Background(), pol, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
}

func TestExecutor_ContextCanceledDuringWait(t *testing.T) {
	exec := NewExecutor()

	ctx, cancel := context.WithCancel(context.Background())
	sleepStarted := make(chan struct{})
	exec.sleep = func(ctx context.Context, _ time.Duration) error {
		close(sleepStarted)
		<-ctx.Done()
		return ctx.Err()
	}

	pol := policy.Policy{MaxRetries: 3, BaseDelay: time.Minute}
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- exec.Do(ctx, pol, func(context.Context) error {
			calls++
			return errBoom
		})
	}()

	<-sleepStarted
	cancel()
	err := <-done

	if calls != 1 {
		t.Fatalf("calls=%d, want 1", calls)
	}
	var ierr *InterruptedError
	if !errors.As(err, &ierr) {
		t.Fatalf("err=%T, want *InterruptedError", err)
	}
	if ierr.Attempts != 1 {
		t.Fatalf("attempts=%d, want 1", ierr.Attempts)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want to match context.Canceled", err)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("err=%v, want to match the last failure", err)
	}
}

func TestDoValue_InterruptionSurfacesInOutcome(t *testing.T) {
	exec := NewExecutor()
	exec.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	out := DoValue(context.Background(), exec, policy.Policy{MaxRetries: 2, BaseDelay: time.Second},
		func(context.Context) (int, error) { return 0, errBoom })

	if !out.IsFailure() {
		t.Fatalf("expected failure")
	}
	cause := out.Cause()
	if !errors.Is(cause, context.Canceled) || !errors.Is(cause, errBoom) {
		t.Fatalf("cause=%v, want both cancellation and last failure", cause)
	}
}

func TestExecutor_RealSleepHonorsContext(t *testing.T) {
	exec := NewExecutor()

	ctx, cancel := context.WithCancel(context.Background())
	pol := policy.Policy{MaxRetries: 1, BaseDelay: time.Hour}

	done := make(chan error, 1)
	go func() {
		done <- exec.Do(ctx, pol, func(context.Context) error { return errBoom })
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err=%v, want canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("executor did not return after cancellation")
	}
}

func TestExecutor_TransformAppliedOnceAtExhaustion(t *testing.T) {
	exec := newTestExecutor()

	wrapped := errors.New("wrapped")
	transforms := 0
	pol := policy.Policy{
		MaxRetries: 2,
		Transform: func(err error) error {
			transforms++
			if err != errBoom {
				t.Fatalf("transform got %v, want boom", err)
			}
			return wrapped
		},
	}

	err := exec.Do(context.Background(), pol, func(context.Context) error { return errBoom })

	if transforms != 1 {
		t.Fatalf("transforms=%d, want 1", transforms)
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("err=%T, want *ExhaustedError", err)
	}
	if ex.Err != wrapped {
		t.Fatalf("terminal cause=%v, want wrapped", ex.Err)
	}
}

func TestDoValue_TransformedCauseInOutcome(t *testing.T) {
	exec := newTestExecutor()

	wrapped := errors.New("wrapped")
	pol := policy.Policy{
		MaxRetries: 1,
		Transform:  func(error) error { return wrapped },
	}

	out := DoValue(context.Background(), exec, pol, func(context.Context) (int, error) {
		return 0, errBoom
	})
	if out.Cause() != wrapped {
		t.Fatalf("cause=%v, want wrapped", out.Cause())
	}
}

func TestExecutor_TransformNotAppliedOnSuccess(t *testing.T) {
	exec := newTestExecutor()

	pol := policy.Policy{
		MaxRetries: 2,
		Transform: func(error) error {
			t.Fatalf("transform must not run on success")
			return nil
		},
	}

	calls := 0
	err := exec.Do(context.Background(), pol, func(context.Context) error {
		calls++
		if calls < 2 {
			return errBoom
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
}

func TestExecutor_TransformReturningNilKeepsCause(t *testing.T) {
	exec := newTestExecutor()

	pol := policy.Policy{
		MaxRetries: 0,
		Transform:  func(error) error { return nil },
	}

	err := exec.Do(context.Background(), pol, func(context.Context) error { return errBoom })
	if !errors.Is(err, errBoom) {
		t.Fatalf("err=%v, want boom preserved", err)
	}
}

func TestExecutor_PanicRecoveredAndRetried(t *testing.T) {
	exec := newTestExecutor()

	calls := 0
	err := exec.Do(context.Background(), policy.Policy{MaxRetries: 2}, func(context.Context) error {
		calls++
		panic("kaboom")
	})
	if calls != 3 {
		t.Fatalf("calls=%d, want 3", calls)
	}
	var perr *failure.PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("err=%v, want to wrap *failure.PanicError", err)
	}
	if perr.Value != "kaboom" {
		t.Fatalf("panic value=%v, want kaboom", perr.Value)
	}
	if len(perr.Stack) == 0 {
		t.Fatalf("expected a captured stack")
	}
}

func TestExecutor_PanicPropagatesWhenRecoveryDisabled(t *testing.T) {
	exec := NewExecutor(WithRecoverPanics(false))
	exec.sleep = func(context.Context, time.Duration) error { return nil }

	defer func() {
		if r := recover(); r != "kaboom" {
			t.Fatalf("recovered %v, want kaboom", r)
		}
	}()
	_ = exec.Do(context.Background(), policy.Policy{MaxRetries: 2}, func(context.Context) error {
		panic("kaboom")
	})
	t.Fatalf("expected panic to propagate")
}

func TestExecutor_NilOperationRejected(t *testing.T) {
	exec := newTestExecutor()

	err := exec.Do(context.Background(), policy.Policy{MaxRetries: 2}, nil)
	if !errors.Is(err, failure.ErrNilReference) {
		t.Fatalf("err=%v, want nil reference", err)
	}

	out := DoValue[int](context.Background(), exec, policy.Policy{}, nil)
	if !errors.Is(out.Cause(), failure.ErrNilReference) {
		t.Fatalf("cause=%v, want nil reference", out.Cause())
	}

	fnOut := DoFunc[int, int](context.Background(), exec, policy.Policy{}, 1, nil)
	if !errors.Is(fnOut.Cause(), failure.ErrNilReference) {
		t.Fatalf("cause=%v, want nil reference", fnOut.Cause())
	}
}

func TestExecutor_NilContextBackgrounds(t *testing.T) {
	exec := newTestExecutor()

	var nilCtx context.Context
	err := exec.Do(nilCtx, policy.Policy{}, func(ctx context.Context) error {
		if ctx == nil {
			t.Fatalf("op received nil ctx")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
}

func TestSleepWithContext_ZeroReturnsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A zero wait is skipped outright, even under a cancelled ctx.
	if err := sleepWithContext(ctx, 0); err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
	if err := sleepWithContext(context.Background(), -time.Second); err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
}

func TestSleepWithContext_CancelUnblocks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sleepWithContext(ctx, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err=%v, want canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("sleep did not return after cancellation")
	}
}
