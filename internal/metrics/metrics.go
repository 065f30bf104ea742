// Package metrics holds the Prometheus collectors for order intake.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Submissions    *prometheus.CounterVec
	OrderTotal     prometheus.Histogram
	LedgerWrites   *prometheus.CounterVec
	LedgerDuration prometheus.Histogram
	BreakerState   prometheus.Gauge
}

// New creates the collectors on a private registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hibachi_order_submissions_total",
				Help: "Order submissions by outcome (accepted, rejected, failed)",
			},
			[]string{"outcome"},
		),
		OrderTotal: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hibachi_order_total_dollars",
				Help:    "Priced total of accepted orders",
				Buckets: []float64{60, 65, 70, 75, 80, 85, 90},
			},
		),
		LedgerWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hibachi_ledger_writes_total",
				Help: "Ledger row writes by status (ok, skipped, failed)",
			},
			[]string{"status"},
		),
		LedgerDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hibachi_ledger_write_duration_seconds",
				Help:    "Duration of attempted ledger writes",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		BreakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hibachi_ledger_breaker_state",
				Help: "Ledger circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
		),
	}

	reg.MustRegister(
		m.Submissions,
		m.OrderTotal,
		m.LedgerWrites,
		m.LedgerDuration,
		m.BreakerState,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSubmission counts one submission outcome.
func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveOrderTotal records the priced total of an accepted order.
func (m *Metrics) ObserveOrderTotal(total float64) {
	if m == nil {
		return
	}
	m.OrderTotal.Observe(total)
}

// ObserveLedger counts a ledger outcome. Skipped writes carry no duration.
func (m *Metrics) ObserveLedger(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.LedgerWrites.WithLabelValues(status).Inc()
	if d > 0 {
		m.LedgerDuration.Observe(d.Seconds())
	}
}

// SetBreakerState publishes the ledger breaker state.
func (m *Metrics) SetBreakerState(state int) {
	if m == nil {
		return
	}
	m.BreakerState.Set(float64(state))
}
