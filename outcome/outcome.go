// Package outcome provides the immutable success-or-failure container
// returned by the retry executor.
//
// An Outcome holds either a success value or a failure cause, never both.
// Combinators return new Outcomes and never mutate the receiver. None of
// them panic: a panic inside a caller-supplied callback is captured as a
// *failure.PanicError cause instead of propagating. The single raising
// accessor is MustGet.
package outcome

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/justme8code/catchy/failure"
)

// ErrNoCause substitutes for a nil cause passed to Failure, so a Failure
// always carries a non-nil error.
var ErrNoCause = errors.New("catchy: failure with no cause")

// Outcome is a tagged success-or-failure value. The zero value is a success
// holding the zero value of T.
type Outcome[T any] struct {
	value T
	cause error
}

// Success returns a success Outcome holding v.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

// Failure returns a failure Outcome carrying err. A nil err is replaced by
// ErrNoCause.
func Failure[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrNoCause
	}
	return Outcome[T]{cause: err}
}

// From lifts a conventional (value, error) pair into an Outcome.
func From[T any](v T, err error) Outcome[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// IsSuccess reports whether the Outcome holds a value.
func (o Outcome[T]) IsSuccess() bool { return o.cause == nil }

// IsFailure reports whether the Outcome holds a cause.
func (o Outcome[T]) IsFailure() bool { return o.cause != nil }

// Value returns the held value, or the zero value of T on failure.
func (o Outcome[T]) Value() T { return o.value }

// Cause returns the held failure cause, or nil on success.
func (o Outcome[T]) Cause() error { return o.cause }

// Get unpacks the Outcome into a conventional (value, error) pair.
func (o Outcome[T]) Get() (T, error) { return o.value, o.cause }

// MustGet returns the held value or panics with the cause. It is the only
// accessor that raises.
func (o Outcome[T]) MustGet() T {
	if o.cause != nil {
		panic(o.cause)
	}
	return o.value
}

// OrElse returns the held value, or fallback on failure. It never raises.
func (o Outcome[T]) OrElse(fallback T) T {
	if o.cause != nil {
		return fallback
	}
	return o.value
}

// OnSuccess invokes fn with the held value if the Outcome is a success and
// returns the receiver unchanged. A nil fn is a no-op. A panicking fn
// demotes the success to a failure carrying the captured panic.
func (o Outcome[T]) OnSuccess(fn func(T)) Outcome[T] {
	if o.cause != nil || fn == nil {
		return o
	}
	if perr := guard(func() { fn(o.value) }); perr != nil {
		return Failure[T](perr)
	}
	return o
}

// OnFailure invokes fn with the held cause if the Outcome is a failure and
// returns the receiver unchanged. A nil fn is a no-op. A panicking fn
// replaces the cause with the captured panic.
func (o Outcome[T]) OnFailure(fn func(error)) Outcome[T] {
	if o.cause == nil || fn == nil {
		return o
	}
	if perr := guard(func() { fn(o.cause) }); perr != nil {
		return Failure[T](perr)
	}
	return o
}

// Map applies fn to the held value and wraps the result in a new Outcome.
// On failure fn is never invoked and the cause is carried into a fresh
// Failure. An error or panic from fn becomes the new cause.
func (o Outcome[T]) Map(fn func(T) (T, error)) Outcome[T] {
	return Map(o, fn)
}

// Map is the cross-type form of Outcome.Map: Go methods cannot introduce
// type parameters, so mapping T to a different R goes through this package
// function.
func Map[T, R any](o Outcome[T], fn func(T) (R, error)) Outcome[R] {
	if o.cause != nil {
		return Failure[R](o.cause)
	}
	if fn == nil {
		return Failure[R](fmt.Errorf("catchy: map: %w", failure.ErrNilReference))
	}
	var (
		mapped R
		err    error
	)
	if perr := guard(func() { mapped, err = fn(o.value) }); perr != nil {
		return Failure[R](perr)
	}
	if err != nil {
		return Failure[R](err)
	}
	return Success(mapped)
}

// Recover invokes fn to produce a replacement value if the Outcome is a
// failure. An error or panic from fn becomes the new cause, masking the
// original. On success fn is never invoked.
func (o Outcome[T]) Recover(fn func() (T, error)) Outcome[T] {
	if o.cause == nil {
		return o
	}
	if fn == nil {
		return Failure[T](fmt.Errorf("catchy: recover: %w", failure.ErrNilReference))
	}
	var (
		v   T
		err error
	)
	if perr := guard(func() { v, err = fn() }); perr != nil {
		return Failure[T](perr)
	}
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// RecoverWithValue unconditionally replaces a failure with Success(v). On
// success it is a no-op.
func (o Outcome[T]) RecoverWithValue(v T) Outcome[T] {
	if o.cause == nil {
		return o
	}
	return Success(v)
}

// RecoverWithMessage replaces a failure with a success holding msg. It is
// restricted to string-valued Outcomes at compile time.
func RecoverWithMessage[T ~string](o Outcome[T], msg string) Outcome[T] {
	return o.RecoverWithValue(T(msg))
}

// guard runs fn and converts a panic into a *failure.PanicError.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &failure.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}
