package mortgage

import (
	"context"
	"io"
	"log/slog"
	"time"

	"mortgagecheck/internal/mortgage/metrics"
	dErrors "mortgagecheck/pkg/domain-errors"
	"mortgagecheck/pkg/requestcontext"
)

// Check outcomes as reported in logs and metrics.
const (
	OutcomeFeasible   = "feasible"
	OutcomeInfeasible = "infeasible"
	OutcomeError      = "error"
)

// CheckResult is an evaluated mortgage check.
type CheckResult struct {
	Result
	EvaluatedAt time.Time
}

// RatesResult is the published rate table, sorted by maturity period.
type RatesResult struct {
	Rates []RateTier
}

// Service is the application entry point for mortgage checks. It adds logging,
// metrics and request timing around the pure Evaluator.
type Service struct {
	evaluator *Evaluator
	rates     RateSource
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService builds a Service reading rates from source.
func NewService(source RateSource, opts ...Option) *Service {
	s := &Service{
		evaluator: NewEvaluator(source),
		rates:     source,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check evaluates req. Infeasible requests are returned as results; the error
// return only carries configuration failures, coded as CodeConfiguration.
func (s *Service) Check(ctx context.Context, req Request) (*CheckResult, error) {
	start := time.Now()
	traceID := requestcontext.TraceID(ctx)

	result, err := s.evaluator.Evaluate(req)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	if err != nil {
		s.metrics.IncrementOutcome(OutcomeError)
		s.logger.ErrorContext(ctx, "mortgage check failed",
			"trace_id", traceID,
			"maturity_period", req.MaturityPeriodMonths,
			"error", err,
		)
		return nil, toDomainError(err)
	}

	if result.Feasible {
		s.metrics.IncrementOutcome(OutcomeFeasible)
		s.logger.InfoContext(ctx, "mortgage check feasible",
			"trace_id", traceID,
			"maturity_period", req.MaturityPeriodMonths,
			"monthly_costs", result.MonthlyPayment.String(),
		)
	} else {
		s.metrics.IncrementOutcome(OutcomeInfeasible)
		for _, code := range result.ErrorCodes {
			s.metrics.IncrementRuleFailure(string(code))
		}
		s.logger.InfoContext(ctx, "mortgage check infeasible",
			"trace_id", traceID,
			"maturity_period", req.MaturityPeriodMonths,
			"error_codes", result.ErrorCodes,
		)
	}

	return &CheckResult{
		Result:      result,
		EvaluatedAt: requestcontext.Now(ctx),
	}, nil
}

// InterestRates returns the current rate table sorted ascending by maturity.
func (s *Service) InterestRates(ctx context.Context) (*RatesResult, error) {
	tiers := s.rates.RateTiers()
	if len(tiers) == 0 {
		s.logger.ErrorContext(ctx, "rate table is empty",
			"trace_id", requestcontext.TraceID(ctx),
		)
		return nil, toDomainError(ErrNoRatesConfigured)
	}
	return &RatesResult{Rates: SortedTiers(tiers)}, nil
}

func toDomainError(err error) error {
	if IsConfigurationError(err) {
		return dErrors.Wrap(err, dErrors.CodeConfiguration, "mortgage rates are not configured")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "mortgage check failed")
}
