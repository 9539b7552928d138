package observe

import "context"

// BaseObserver implements Observer with no-op methods. Embed it to
// override only the callbacks you care about.
type BaseObserver struct{}

var _ Observer = BaseObserver{}

func (BaseObserver) OnStart(context.Context, CallInfo) {}

func (BaseObserver) OnAttempt(context.Context, CallInfo, AttemptRecord) {}

func (BaseObserver) OnSuccess(context.Context, CallInfo, int) {}

func (BaseObserver) OnFailure(context.Context, CallInfo, int, error) {}

// MultiObserver fans every callback out to each observer in order.
// Nil entries are skipped.
type MultiObserver struct {
	Observers []Observer
}

var _ Observer = (*MultiObserver)(nil)

// NewMultiObserver builds a MultiObserver from the given observers,
// dropping nil entries up front.
func NewMultiObserver(obs ...Observer) *MultiObserver {
	m := &MultiObserver{Observers: make([]Observer, 0, len(obs))}
	for _, o := range obs {
		if o != nil {
			m.Observers = append(m.Observers, o)
		}
	}
	return m
}

func (m *MultiObserver) OnStart(ctx context.Context, info CallInfo) {
	if m == nil {
		return
	}
	for _, o := range m.Observers {
		if o != nil {
			o.OnStart(ctx, info)
		}
	}
}

func (m *MultiObserver) OnAttempt(ctx context.Context, info CallInfo, rec AttemptRecord) {
	if m == nil {
		return
	}
	for _, o := range m.Observers {
		if o != nil {
			o.OnAttempt(ctx, info, rec)
		}
	}
}

func (m *MultiObserver) OnSuccess(ctx context.Context, info CallInfo, attempts int) {
	if m == nil {
		return
	}
	for _, o := range m.Observers {
		if o != nil {
			o.OnSuccess(ctx, info, attempts)
		}
	}
}

func (m *MultiObserver) OnFailure(ctx context.Context, info CallInfo, attempts int, err error) {
	if m == nil {
		return
	}
	for _, o := range m.Observers {
		if o != nil {
			o.OnFailure(ctx, info, attempts, err)
		}
	}
}
