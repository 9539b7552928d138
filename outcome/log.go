package outcome

import (
	"context"
	"log/slog"

	"github.com/justme8code/catchy/failure"
)

// defaultFailureMessage is logged when the caller supplies no message.
const defaultFailureMessage = "operation failed"

// LogIfFailure logs the cause and returns the receiver unchanged. The level
// follows the cause's failure category: warn for caller misuse, error for
// programming faults, info otherwise. A success or a nil logger is a no-op.
// The cause is attached as the "error" attribute after args.
func (o Outcome[T]) LogIfFailure(logger *slog.Logger, msg string, args ...any) Outcome[T] {
	if o.cause == nil || logger == nil {
		return o
	}
	level := failure.LevelFor(failure.Classify(o.cause))
	o.log(logger, level, msg, args)
	return o
}

// LogIfFailureAt is LogIfFailure with an explicit level instead of the
// category-derived one.
func (o Outcome[T]) LogIfFailureAt(logger *slog.Logger, level slog.Level, msg string, args ...any) Outcome[T] {
	if o.cause == nil || logger == nil {
		return o
	}
	o.log(logger, level, msg, args)
	return o
}

func (o Outcome[T]) log(logger *slog.Logger, level slog.Level, msg string, args []any) {
	if msg == "" {
		msg = defaultFailureMessage
	}
	kv := make([]any, 0, len(args)+2)
	kv = append(kv, args...)
	kv = append(kv, "error", o.cause)
	logger.Log(context.Background(), level, msg, kv...)
}
