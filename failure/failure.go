// Package failure classifies failure causes into a small closed set of
// categories. The category picks a default log severity for helpers like
// outcome.LogIfFailure and observe.LogObserver; it is advisory only and
// never changes retry or recovery behavior.
package failure

import (
	"errors"
	"log/slog"
	"runtime"
	"strings"
)

// Category identifies the advisory severity class of a failure cause.
type Category int

const (
	CategoryUnknown     Category = iota
	CategoryInvalid              // caller misuse: bad arguments, nil references
	CategoryRuntime              // programming faults: recovered panics, runtime errors
	CategoryOperational          // ordinary operational failures
)

func (c Category) String() string {
	switch c {
	case CategoryInvalid:
		return "invalid"
	case CategoryRuntime:
		return "runtime"
	case CategoryOperational:
		return "operational"
	default:
		return "unknown"
	}
}

// Classifier maps a failure cause to a Category. A Classifier must accept
// any error, including nil.
type Classifier func(err error) Category

// Sentinel causes for the invalid-argument class. Wrap them with %w to mark
// caller-misuse failures so severity-aware logging warns instead of erroring.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNilReference    = errors.New("nil reference")
)

// Classify is the default Classifier.
//
// Order of precedence: an explicit CategorizedError tag wins; then the
// invalid-argument sentinels; then panics and runtime errors (nil
// dereferences count as invalid, like the sentinel they shadow); everything
// else is operational.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	var tagged *CategorizedError
	if errors.As(err, &tagged) {
		return tagged.Category
	}

	if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNilReference) {
		return CategoryInvalid
	}

	var panicErr *PanicError
	var runtimeErr runtime.Error
	if errors.As(err, &panicErr) || errors.As(err, &runtimeErr) {
		if strings.Contains(err.Error(), "nil pointer dereference") {
			return CategoryInvalid
		}
		return CategoryRuntime
	}

	return CategoryOperational
}

// LevelFor returns the default log level for a category: warn for caller
// misuse, error for programming faults, info for everything else.
func LevelFor(c Category) slog.Level {
	switch c {
	case CategoryInvalid:
		return slog.LevelWarn
	case CategoryRuntime:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
