package xgxtrace

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeComposed   = "composed"
	outcomePropagated = "propagated"
)

// boundaryMetrics counts failures crossing boundaries. A nil value records
// nothing.
type boundaryMetrics struct {
	failures *prometheus.CounterVec
}

func newBoundaryMetrics(reg prometheus.Registerer) *boundaryMetrics {
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xgx",
			Subsystem: "boundary",
			Name:      "failures_total",
			Help:      "Failures that crossed an API boundary, by outcome and type.",
		},
		[]string{"outcome", "type"},
	)
	if err := reg.Register(failures); err != nil {
		// Boundaries sharing a registerer share the counter.
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		failures = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return &boundaryMetrics{failures: failures}
}

func (m *boundaryMetrics) observe(outcome, typ string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(outcome, typ).Inc()
}
