package metrics

import (
	"context"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"poolmon/internal/model"
	"poolmon/internal/monitor"
)

const namespace = "poolmon"

// Metrics exports cycle outcomes and the latest pool report per pool.
type Metrics struct {
	now func() time.Time

	cycleTotal       *prometheus.CounterVec
	cycleDuration    *prometheus.HistogramVec
	cycleLastSuccess *prometheus.GaugeVec

	balance *prometheus.GaugeVec
	price   *prometheus.GaugeVec
	k       *prometheus.GaugeVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		now: time.Now,

		// ── Cycle metrics ──────────────────────────────────────────────
		cycleTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "total",
			Help:      "Total number of polling cycles per pool and outcome.",
		}, []string{"pool", "status"}),

		cycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "duration_seconds",
			Help:      "Duration of a polling cycle in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"pool"}),

		cycleLastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "last_success_timestamp",
			Help:      "Unix timestamp of the last successful cycle per pool.",
		}, []string{"pool"}),

		// ── Pool state ─────────────────────────────────────────────────
		balance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "balance",
			Help:      "Decimal-normalized balance of each pool side.",
		}, []string{"pool", "side"}),

		price: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "price",
			Help:      "Spot price of each pool side in units of the other side.",
		}, []string{"pool", "side"}),

		k: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "k",
			Help:      "Last recorded constant-product invariant (klast).",
		}, []string{"pool"}),
	}
}

// ObserveCycle records the outcome of one cycle.
func (m *Metrics) ObserveCycle(pool model.Address, status monitor.CycleStatus, elapsed time.Duration) {
	label := pool.Hex()
	m.cycleTotal.WithLabelValues(label, string(status)).Inc()
	m.cycleDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if status == monitor.StatusOK {
		m.cycleLastSuccess.WithLabelValues(label).Set(float64(m.now().Unix()))
	}
}

// Emit publishes the report values as gauges. Float conversion is lossy and
// only meant for dashboards.
func (m *Metrics) Emit(_ context.Context, report model.PriceReport) error {
	label := report.Pool.Hex()
	if report.XBalance != nil {
		v, _ := report.XBalance.Float64()
		m.balance.WithLabelValues(label, "x").Set(v)
	}
	if report.YBalance != nil {
		v, _ := report.YBalance.Float64()
		m.balance.WithLabelValues(label, "y").Set(v)
	}
	if report.XPrice != nil {
		v, _ := report.XPrice.Float64()
		m.price.WithLabelValues(label, "x").Set(v)
	}
	if report.YPrice != nil {
		v, _ := report.YPrice.Float64()
		m.price.WithLabelValues(label, "y").Set(v)
	}
	if report.K != nil {
		v, _ := new(big.Float).SetInt(report.K).Float64()
		m.k.WithLabelValues(label).Set(v)
	}
	return nil
}
