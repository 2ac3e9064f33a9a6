package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minichain"

// Metrics holds the chain collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	BlocksMined        prometheus.Counter
	BlocksAppended     prometheus.Counter
	MiningAttempts     prometheus.Histogram
	ChainLength        prometheus.Gauge
	ValidationFailures prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BlocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_mined_total",
			Help:      "Number of blocks found by proof-of-work.",
		}),
		BlocksAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_appended_total",
			Help:      "Number of blocks appended to the chain.",
		}),
		MiningAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mining_attempts",
			Help:      "Digests tested per mined block.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		ChainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "Number of blocks in the chain including genesis.",
		}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Number of chain validations that found a broken or tampered block.",
		}),
	}

	m.registry.MustRegister(m.BlocksMined, m.BlocksAppended, m.MiningAttempts, m.ChainLength, m.ValidationFailures)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveMined(attempts uint64) {
	if m == nil {
		return
	}

	m.BlocksMined.Inc()
	m.MiningAttempts.Observe(float64(attempts))
}

func (m *Metrics) ObserveAppended(length int) {
	if m == nil {
		return
	}

	m.BlocksAppended.Inc()
	m.ChainLength.Set(float64(length))
}

func (m *Metrics) SetChainLength(length int) {
	if m == nil {
		return
	}

	m.ChainLength.Set(float64(length))
}

func (m *Metrics) ObserveValidation(valid bool) {
	if m == nil || valid {
		return
	}

	m.ValidationFailures.Inc()
}
