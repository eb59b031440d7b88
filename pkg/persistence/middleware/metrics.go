package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// Store operation labels.
const (
	OpSave   = "save"
	OpLoad   = "load"
	OpDelete = "delete"
	OpList   = "list"
)

type metricsMiddleware struct {
	next     ports.StateStore
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewMetricsMiddleware times every store call in tally_store_duration_seconds{op}
// and counts failures in tally_store_errors_total{op}. A Load of a missing
// session is not a failure.
func NewMetricsMiddleware(reg prometheus.Registerer) (Middleware, error) {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tally_store_duration_seconds",
		Help:    "Duration of session store operations.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"op"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_store_errors_total",
		Help: "Failed session store operations.",
	}, []string{"op"})

	for _, c := range []prometheus.Collector{duration, failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return func(next ports.StateStore) ports.StateStore {
		return &metricsMiddleware{next: next, duration: duration, errors: failures}
	}, nil
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.errors.WithLabelValues(op).Inc()
	}
}

func (m *metricsMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, state)
	m.observe(OpSave, start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	start := time.Now()
	state, err := m.next.Load(ctx, sessionID)
	m.observe(OpLoad, start, err)
	return state, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.observe(OpDelete, start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.observe(OpList, start, err)
	return ids, err
}
