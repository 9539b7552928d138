// Package metric exports call outcomes to Prometheus. Observer plugs
// into the executor as an observe.Observer and keeps per-call-name
// counters plus an execution duration histogram.
package metric

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/justme8code/catchy/observe"
)

// unnamedCall labels calls that run without a profile name.
const unnamedCall = "(unnamed)"

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Observer records execution metrics:
//
//	catchy_executions_total{name, status}
//	catchy_attempts_total{name}
//	catchy_retries_total{name}
//	catchy_execution_duration_seconds{name, status}
type Observer struct {
	executions *prometheus.CounterVec
	attempts   *prometheus.CounterVec
	retries    *prometheus.CounterVec
	duration   *prometheus.HistogramVec

	now func() time.Time
}

var _ observe.Observer = (*Observer)(nil)

// NewObserver builds an Observer and registers its collectors with reg
// (the default registerer when nil). Collectors already registered by a
// previous Observer are reused rather than rejected.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &Observer{now: time.Now}

	executions, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catchy",
			Name:      "executions_total",
			Help:      "Completed calls by terminal status.",
		},
		[]string{"name", "status"},
	))
	if err != nil {
		return nil, err
	}
	o.executions = executions

	attempts, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catchy",
			Name:      "attempts_total",
			Help:      "Attempts run, including each call's first.",
		},
		[]string{"name"},
	))
	if err != nil {
		return nil, err
	}
	o.attempts = attempts

	retries, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catchy",
			Name:      "retries_total",
			Help:      "Attempts beyond each call's first.",
		},
		[]string{"name"},
	))
	if err != nil {
		return nil, err
	}
	o.retries = retries

	duration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catchy",
			Name:      "execution_duration_seconds",
			Help:      "Wall time of completed calls, waits included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"name", "status"},
	))
	if err != nil {
		return nil, err
	}
	o.duration = duration

	return o, nil
}

// register adds c to reg, handing back the already-registered collector
// on a duplicate registration.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

func callName(info observe.CallInfo) string {
	if info.Name == "" {
		return unnamedCall
	}
	return info.Name
}

func (o *Observer) OnStart(context.Context, observe.CallInfo) {}

func (o *Observer) OnAttempt(_ context.Context, info observe.CallInfo, rec observe.AttemptRecord) {
	if o == nil {
		return
	}
	name := callName(info)
	o.attempts.WithLabelValues(name).Inc()
	if rec.Attempt > 1 {
		o.retries.WithLabelValues(name).Inc()
	}
}

func (o *Observer) OnSuccess(_ context.Context, info observe.CallInfo, _ int) {
	o.finish(info, statusSuccess)
}

func (o *Observer) OnFailure(_ context.Context, info observe.CallInfo, _ int, _ error) {
	o.finish(info, statusFailure)
}

func (o *Observer) finish(info observe.CallInfo, status string) {
	if o == nil {
		return
	}
	name := callName(info)
	o.executions.WithLabelValues(name, status).Inc()
	o.duration.WithLabelValues(name, status).Observe(o.now().Sub(info.Start).Seconds())
}
