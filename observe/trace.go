package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/justme8code/catchy"

// TraceObserver opens one span per call and records an event per
// attempt. The span status reflects the terminal result.
type TraceObserver struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

var _ Observer = (*TraceObserver)(nil)

// NewTraceObserver returns a TraceObserver using tracer. A nil tracer
// falls back to the global provider.
func NewTraceObserver(tracer trace.Tracer) *TraceObserver {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &TraceObserver{
		tracer: tracer,
		spans:  make(map[string]trace.Span),
	}
}

func spanName(info CallInfo) string {
	if info.Name == "" {
		return "catchy.call"
	}
	return "catchy." + info.Name
}

func (t *TraceObserver) OnStart(ctx context.Context, info CallInfo) {
	if t == nil || t.tracer == nil {
		return
	}
	_, span := t.tracer.Start(ctx, spanName(info),
		trace.WithAttributes(
			attribute.String("catchy.call_id", info.ID),
			attribute.String("catchy.name", info.Name),
			attribute.Int("catchy.max_retries", info.Policy.MaxRetries),
		),
	)
	t.mu.Lock()
	t.spans[info.ID] = span
	t.mu.Unlock()
}

func (t *TraceObserver) OnAttempt(ctx context.Context, info CallInfo, rec AttemptRecord) {
	span, ok := t.lookup(info.ID)
	if !ok {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Int("catchy.attempt", rec.Attempt),
		attribute.Int64("catchy.backoff_ms", rec.Backoff.Milliseconds()),
	}
	if rec.Err != nil {
		attrs = append(attrs, attribute.String("catchy.error", rec.Err.Error()))
	}
	span.AddEvent("attempt", trace.WithAttributes(attrs...))
}

func (t *TraceObserver) OnSuccess(ctx context.Context, info CallInfo, attempts int) {
	span, ok := t.take(info.ID)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("catchy.attempts", attempts))
	span.SetStatus(codes.Ok, "")
	span.End()
}

func (t *TraceObserver) OnFailure(ctx context.Context, info CallInfo, attempts int, err error) {
	span, ok := t.take(info.ID)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("catchy.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Error, "call failed")
	}
	span.End()
}

func (t *TraceObserver) lookup(id string) (trace.Span, bool) {
	if t == nil {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	span, ok := t.spans[id]
	return span, ok
}

// take removes and returns the span for id so a call ends it at most
// once.
func (t *TraceObserver) take(id string) (trace.Span, bool) {
	if t == nil {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	span, ok := t.spans[id]
	if ok {
		delete(t.spans, id)
	}
	return span, ok
}
