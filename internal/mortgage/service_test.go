package mortgage_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"mortgagecheck/internal/mortgage"
	"mortgagecheck/internal/mortgage/metrics"
	dErrors "mortgagecheck/pkg/domain-errors"
	"mortgagecheck/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	logs    *bytes.Buffer
	metrics *metrics.Metrics
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.now = time.Date(2026, 4, 1, 10, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(requestcontext.WithTraceID(context.Background(), "trace-123"), s.now)
}

func (s *ServiceSuite) newService(tiers mortgage.StaticRates) *mortgage.Service {
	return mortgage.NewService(tiers,
		mortgage.WithLogger(slog.New(slog.NewJSONHandler(s.logs, nil))),
		mortgage.WithMetrics(s.metrics),
	)
}

func (s *ServiceSuite) defaultTiers() mortgage.StaticRates {
	return mortgage.StaticRates{
		{MaturityPeriodMonths: 20, AnnualRatePercent: decimal.RequireFromString("5.0")},
		{MaturityPeriodMonths: 10, AnnualRatePercent: decimal.RequireFromString("2.5")},
	}
}

func (s *ServiceSuite) TestCheck() {
	s.Run("feasible check is stamped and counted", func() {
		svc := s.newService(s.defaultTiers())

		result, err := svc.Check(s.ctx, eurRequest("60000", "200000", "250000", 20))

		s.Require().NoError(err)
		s.True(result.Feasible)
		s.Equal("10443.26", result.MonthlyPayment.Value.StringFixed(2))
		s.Equal(s.now, result.EvaluatedAt)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.CheckOutcome.WithLabelValues(mortgage.OutcomeFeasible)))
		s.Contains(s.logs.String(), `"trace_id":"trace-123"`)
	})

	s.Run("infeasible check counts every failed rule", func() {
		svc := s.newService(s.defaultTiers())

		result, err := svc.Check(s.ctx, eurRequest("50000", "250000", "200000", 20))

		s.Require().NoError(err)
		s.False(result.Feasible)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.CheckOutcome.WithLabelValues(mortgage.OutcomeInfeasible)))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RuleFailures.WithLabelValues(string(mortgage.ErrorCodeHighLoanToValue))))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RuleFailures.WithLabelValues(string(mortgage.ErrorCodeInsufficientIncome))))
	})

	s.Run("empty rate table is a configuration error", func() {
		svc := s.newService(mortgage.StaticRates{})

		result, err := svc.Check(s.ctx, eurRequest("50000", "150000", "200000", 20))

		s.Nil(result)
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
		s.True(mortgage.IsConfigurationError(err))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.CheckOutcome.WithLabelValues(mortgage.OutcomeError)))
	})

	s.Run("works without options", func() {
		result, err := mortgage.NewService(s.defaultTiers()).Check(context.Background(), eurRequest("50000", "150000", "200000", 10))
		s.Require().NoError(err)
		s.True(result.Feasible)
		s.False(result.EvaluatedAt.IsZero())
	})
}

func (s *ServiceSuite) TestInterestRates() {
	s.Run("returns the table sorted by maturity", func() {
		result, err := s.newService(s.defaultTiers()).InterestRates(s.ctx)

		s.Require().NoError(err)
		s.Require().Len(result.Rates, 2)
		s.Equal(10, result.Rates[0].MaturityPeriodMonths)
		s.Equal(20, result.Rates[1].MaturityPeriodMonths)
	})

	s.Run("empty table is a configuration error", func() {
		_, err := s.newService(nil).InterestRates(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	})
}
