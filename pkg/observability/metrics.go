package observability

import (
	"context"
	"errors"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Error reasons used as the "reason" label of tally_errors_total.
const (
	ReasonDivideByZero = "divide_by_zero"
	ReasonNonFinite    = "non_finite"
	ReasonOther        = "other"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Keys        *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Evaluations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Keys: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_keys_total",
				Help: "Total number of key presses by key kind",
			},
			[]string{"kind"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_errors_total",
				Help: "Total number of arithmetic errors by reason",
			},
			[]string{"reason"},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_evaluations_total",
				Help: "Total number of successful evaluations by operator",
			},
			[]string{"operator"},
		),
	}

	for _, c := range []prometheus.Collector{m.Keys, m.Errors, m.Evaluations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnKey: func(_ context.Context, e *domain.KeyEvent) {
			m.Keys.WithLabelValues(e.Key.Kind.String()).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			if e.Result != "" {
				m.Evaluations.WithLabelValues(e.Operator.String()).Inc()
			}
		},
		OnError: func(_ context.Context, e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(Reason(e.Err)).Inc()
		},
	}
}

// Reason classifies an engine error for metric labels.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDivideByZero):
		return ReasonDivideByZero
	case errors.Is(err, domain.ErrNonFinite):
		return ReasonNonFinite
	default:
		return ReasonOther
	}
}
