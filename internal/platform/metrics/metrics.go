// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Settlement outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// BankMetrics groups the collectors recorded by services and handlers.
type BankMetrics struct {
	settlements     *prometheus.CounterVec
	batchFailures   *prometheus.CounterVec
	treasuryBalance prometheus.Gauge
	pricePoints     prometheus.Counter
	httpLatency     *prometheus.HistogramVec
}

var (
	bankMetricsOnce sync.Once
	bankRegistry    *BankMetrics
)

// Bank returns the lazily-initialised metrics registry.
func Bank() *BankMetrics {
	bankMetricsOnce.Do(func() {
		bankRegistry = &BankMetrics{
			settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "resource_bank",
				Name:      "settlements_total",
				Help:      "Settlement attempts segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			batchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "resource_bank",
				Name:      "instrument_batch_failures_total",
				Help:      "Instruments that failed to settle during a maturity run.",
			}, []string{"kind"}),
			treasuryBalance: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "resource_bank",
				Name:      "treasury_balance",
				Help:      "Treasury balance after the last committed settlement.",
			}),
			pricePoints: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "resource_bank",
				Name:      "price_points_total",
				Help:      "Price history points appended.",
			}),
			httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "resource_bank",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for HTTP handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route", "status"}),
		}
		prometheus.MustRegister(
			bankRegistry.settlements,
			bankRegistry.batchFailures,
			bankRegistry.treasuryBalance,
			bankRegistry.pricePoints,
			bankRegistry.httpLatency,
		)
	})
	return bankRegistry
}

// ObserveSettlement counts one settlement attempt.
func (m *BankMetrics) ObserveSettlement(operation, outcome string) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(operation, outcome).Inc()
}

// ObserveBatchFailure counts an instrument that could not be settled in a batch run.
func (m *BankMetrics) ObserveBatchFailure(kind string) {
	if m == nil {
		return
	}
	m.batchFailures.WithLabelValues(kind).Inc()
}

// SetTreasuryBalance records the latest committed treasury balance.
func (m *BankMetrics) SetTreasuryBalance(balance decimal.Decimal) {
	if m == nil {
		return
	}
	f, _ := balance.Float64()
	m.treasuryBalance.Set(f)
}

// AddPricePoints counts appended history points.
func (m *BankMetrics) AddPricePoints(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.pricePoints.Add(float64(n))
}

// ObserveHTTP records a handled request.
func (m *BankMetrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
