package observe

import (
	"context"
	"log/slog"

	"github.com/justme8code/catchy/failure"
)

// LogObserver logs the call lifecycle through slog. Start and success
// are logged at debug, each failed attempt at warn, and the terminal
// failure at the level matching its failure category.
type LogObserver struct {
	// Logger receives the records. A nil Logger disables the observer.
	Logger *slog.Logger

	// Classifier maps terminal errors to categories. Nil means
	// failure.Classify.
	Classifier failure.Classifier
}

var _ Observer = (*LogObserver)(nil)

// NewLogObserver returns a LogObserver writing to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{Logger: logger}
}

func (l *LogObserver) enabled() bool {
	return l != nil && l.Logger != nil
}

func (l *LogObserver) OnStart(ctx context.Context, info CallInfo) {
	if !l.enabled() {
		return
	}
	l.Logger.LogAttrs(ctx, slog.LevelDebug, "call starting",
		slog.String("call_id", info.ID),
		slog.String("name", info.Name),
		slog.Int("max_retries", info.Policy.MaxRetries),
	)
}

func (l *LogObserver) OnAttempt(ctx context.Context, info CallInfo, rec AttemptRecord) {
	if !l.enabled() || rec.Err == nil {
		return
	}
	l.Logger.LogAttrs(ctx, slog.LevelWarn, "attempt failed",
		slog.String("call_id", info.ID),
		slog.String("name", info.Name),
		slog.Int("attempt", rec.Attempt),
		slog.Duration("backoff", rec.Backoff),
		slog.Any("error", rec.Err),
	)
}

func (l *LogObserver) OnSuccess(ctx context.Context, info CallInfo, attempts int) {
	if !l.enabled() {
		return
	}
	l.Logger.LogAttrs(ctx, slog.LevelDebug, "call succeeded",
		slog.String("call_id", info.ID),
		slog.String("name", info.Name),
		slog.Int("attempts", attempts),
	)
}

func (l *LogObserver) OnFailure(ctx context.Context, info CallInfo, attempts int, err error) {
	if !l.enabled() {
		return
	}
	classify := l.Classifier
	if classify == nil {
		classify = failure.Classify
	}
	cat := classify(err)
	l.Logger.LogAttrs(ctx, failure.LevelFor(cat), "call failed",
		slog.String("call_id", info.ID),
		slog.String("name", info.Name),
		slog.Int("attempts", attempts),
		slog.String("category", cat.String()),
		slog.Any("error", err),
	)
}
