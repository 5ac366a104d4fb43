package mfe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "mfe"

// Outcomes of a feature extraction
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

/*
Metrics holds the Prometheus metrics of the extractor.

FeaturesTotal counts extracted features by group and outcome.
PrecomputationSeconds measures the duration of precomputations by group.
DiscardedTotal counts values contributed by precomputations for keys that
were already in the pool or were not declared, by group and key.
*/
type Metrics struct {
	FeaturesTotal         *prometheus.CounterVec
	PrecomputationSeconds *prometheus.HistogramVec
	DiscardedTotal        *prometheus.CounterVec
}

/*
NewMetrics returns Metrics registered with the given Registerer. A nil
Registerer leaves them unregistered.
*/
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FeaturesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "features_total",
			Help:      "Features extracted by group and outcome",
		}, []string{"group", "outcome"}),
		PrecomputationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "precomputation_duration_seconds",
			Help:      "Duration of precomputations by group",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"group"}),
		DiscardedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "discarded_precomputed_values_total",
			Help:      "Precomputed values discarded by group and key",
		}, []string{"group", "key"}),
	}
}

func (m *Metrics) feature(group string, failed bool) {
	if m == nil {
		return
	}
	outcome := OutcomeSucceeded
	if failed {
		outcome = OutcomeFailed
	}
	m.FeaturesTotal.WithLabelValues(group, outcome).Inc()
}

func (m *Metrics) precomputation(group string, seconds float64) {
	if m == nil {
		return
	}
	m.PrecomputationSeconds.WithLabelValues(group).Observe(seconds)
}

func (m *Metrics) discarded(group, key string) {
	if m == nil {
		return
	}
	m.DiscardedTotal.WithLabelValues(group, key).Inc()
}
