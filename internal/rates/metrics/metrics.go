package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for rate table reloads.
type Metrics struct {
	// Number of tiers in the published table
	Tiers prometheus.Gauge

	// Reload attempts by result: "success", "load_error", "not_found", "unavailable", "invalid"
	Reloads *prometheus.CounterVec

	// Unix time of the last successful reload
	LastSuccess prometheus.Gauge
}

// New creates a new Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the rate metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Tiers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mortgage_rate_tiers",
			Help: "Number of tiers in the published rate table",
		}),
		Reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mortgage_rate_reloads_total",
			Help: "Total rate table reload attempts by result",
		}, []string{"result"}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mortgage_rate_last_reload_timestamp_seconds",
			Help: "Unix time of the last successful rate table reload",
		}),
	}
}

// RecordSuccess records a published table.
func (m *Metrics) RecordSuccess(tiers int, at time.Time) {
	if m != nil {
		m.Reloads.WithLabelValues("success").Inc()
		m.Tiers.Set(float64(tiers))
		m.LastSuccess.Set(float64(at.Unix()))
	}
}

// RecordFailure records a rejected reload.
func (m *Metrics) RecordFailure(result string) {
	if m != nil {
		m.Reloads.WithLabelValues(result).Inc()
	}
}
