package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for mortgage checks.
type Metrics struct {
	// Check outcomes: "feasible", "infeasible", "error"
	CheckOutcome *prometheus.CounterVec

	// Failed eligibility rules by error code
	RuleFailures *prometheus.CounterVec

	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the mortgage metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mortgage_check_outcomes_total",
			Help: "Total mortgage checks by outcome",
		}, []string{"outcome"}),

		RuleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mortgage_rule_failures_total",
			Help: "Total eligibility rule failures by error code",
		}, []string{"error_code"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mortgage_check_duration_seconds",
			Help:    "Duration of a mortgage feasibility evaluation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// IncrementOutcome records a check outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.CheckOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementRuleFailure records one failed rule.
func (m *Metrics) IncrementRuleFailure(code string) {
	if m != nil {
		m.RuleFailures.WithLabelValues(code).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
