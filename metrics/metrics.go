// Package metrics exposes the tracker's Prometheus metrics.
package metrics

import (
	"time"

	"github.com/etnz/folio"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics of the tracker.
type Metrics struct {
	Cycles        prometheus.Counter
	CycleDuration prometheus.Histogram
	TotalValue    prometheus.Gauge
	Rows          prometheus.Gauge
	Unavailable   prometheus.Gauge
	Lookups       *prometheus.CounterVec // labels: outcome
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ptk_refresh_cycles_total",
			Help: "Total completed refresh cycles",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ptk_refresh_duration_seconds",
			Help:    "Duration of refresh cycles",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		TotalValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ptk_portfolio_total_value",
			Help: "Portfolio total value of the last cycle",
		}),
		Rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ptk_portfolio_rows",
			Help: "Number of holdings valued in the last cycle",
		}),
		Unavailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ptk_portfolio_unavailable",
			Help: "Number of holdings without price in the last cycle",
		}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ptk_quote_lookups_total",
			Help: "Price lookups by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.Cycles, m.CycleDuration, m.TotalValue, m.Rows, m.Unavailable, m.Lookups)
	return m
}

// ObserveCycle implements folio.CycleObserver.
func (m *Metrics) ObserveCycle(elapsed time.Duration, v folio.Valuation) {
	m.Cycles.Inc()
	m.CycleDuration.Observe(elapsed.Seconds())
	m.TotalValue.Set(v.Total.Float())
	m.Rows.Set(float64(len(v.Rows)))
	m.Unavailable.Set(float64(len(v.Unavailable)))
}

var _ folio.CycleObserver = (*Metrics)(nil)
