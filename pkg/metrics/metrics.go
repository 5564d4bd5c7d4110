package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lending"

type engineMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	accruals   *prometheus.CounterVec
	poolTotals *prometheus.GaugeVec
	poolRates  *prometheus.GaugeVec
}

var (
	engineOnce     sync.Once
	engineRegistry *engineMetrics
)

// Engine returns the lazily registered engine metrics
func Engine() *engineMetrics {
	engineOnce.Do(func() {
		engineRegistry = &engineMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "operations_total",
				Help:      "Engine operations by action and error class, ok on success.",
			}, []string{"action", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "operation_duration_seconds",
				Help:      "Latency of engine operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"action"}),
			accruals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "keeper",
				Name:      "accruals_total",
				Help:      "Pool accruals run by the keeper, by asset and outcome.",
			}, []string{"asset", "outcome"}),
			poolTotals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pool",
				Name:      "totals",
				Help:      "Pool deposits and borrows in human units.",
			}, []string{"asset", "kind"}),
			poolRates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pool",
				Name:      "rates",
				Help:      "Pool annual borrow and deposit rates.",
			}, []string{"asset", "kind"}),
		}

		prometheus.MustRegister(
			engineRegistry.operations,
			engineRegistry.latency,
			engineRegistry.accruals,
			engineRegistry.poolTotals,
			engineRegistry.poolRates,
		)
	})

	return engineRegistry
}

// ObserveOperation records one engine operation, outcome is "ok" or the
// error class
func (m *engineMetrics) ObserveOperation(action, outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.operations.WithLabelValues(action, outcome).Inc()
	m.latency.WithLabelValues(action).Observe(d.Seconds())
}

// ObserveAccrual records one keeper accrual
func (m *engineMetrics) ObserveAccrual(asset string, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.accruals.WithLabelValues(asset, outcome).Inc()
}

// SetPool publishes the pool totals and rates
func (m *engineMetrics) SetPool(asset string, deposits, borrows, depositRate, borrowRate float64) {
	if m == nil {
		return
	}

	m.poolTotals.WithLabelValues(asset, "deposits").Set(deposits)
	m.poolTotals.WithLabelValues(asset, "borrows").Set(borrows)
	m.poolRates.WithLabelValues(asset, "deposit").Set(depositRate)
	m.poolRates.WithLabelValues(asset, "borrow").Set(borrowRate)
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
