package mortgage_test

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"mortgagecheck/internal/mortgage"
)

// =============================================================================
// Evaluator Test Suite
// =============================================================================
// The evaluator is the single entry point of the core. Tests cover both result
// channels: infeasible requests come back as results, an empty rate table
// comes back as a configuration error.

type EvaluatorSuite struct {
	suite.Suite
	tiers     mortgage.StaticRates
	evaluator *mortgage.Evaluator
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorSuite))
}

func (s *EvaluatorSuite) SetupTest() {
	s.tiers = mortgage.StaticRates{
		{MaturityPeriodMonths: 10, AnnualRatePercent: decimal.RequireFromString("2.5")},
		{MaturityPeriodMonths: 20, AnnualRatePercent: decimal.RequireFromString("4.5")},
		{MaturityPeriodMonths: 360, AnnualRatePercent: decimal.RequireFromString("4.2")},
	}
	s.evaluator = mortgage.NewEvaluator(s.tiers)
}

func eurRequest(income, loan, home string, months int) mortgage.Request {
	return mortgage.Request{
		Income:               mortgage.MustAmount(income, mortgage.CurrencyEUR),
		MaturityPeriodMonths: months,
		LoanValue:            mortgage.MustAmount(loan, mortgage.CurrencyEUR),
		HomeValue:            mortgage.MustAmount(home, mortgage.CurrencyEUR),
	}
}

func (s *EvaluatorSuite) TestFeasible() {
	s.Run("prices the loan in its own currency", func() {
		result, err := s.evaluator.Evaluate(eurRequest("50000", "150000", "200000", 20))

		s.Require().NoError(err)
		s.True(result.Feasible)
		s.Empty(result.ErrorCodes)
		s.Require().NotNil(result.MonthlyPayment)
		s.Equal(mortgage.CurrencyEUR, result.MonthlyPayment.Currency)
		s.Equal("7798.81", result.MonthlyPayment.Value.StringFixed(2))
	})

	s.Run("boundary values are feasible", func() {
		result, err := s.evaluator.Evaluate(eurRequest("50000", "200000", "200000", 360))

		s.Require().NoError(err)
		s.True(result.Feasible)
	})

	s.Run("identical inputs produce identical results", func() {
		req := eurRequest("50000", "150000", "200000", 20)
		first, err := s.evaluator.Evaluate(req)
		s.Require().NoError(err)
		second, err := s.evaluator.Evaluate(req)
		s.Require().NoError(err)

		s.Equal(first.Feasible, second.Feasible)
		s.True(first.MonthlyPayment.Equal(*second.MonthlyPayment))
		s.Equal(first.MonthlyPayment.Value.String(), second.MonthlyPayment.Value.String())
	})
}

func (s *EvaluatorSuite) TestInfeasible() {
	s.Run("reports every violated rule in order", func() {
		result, err := s.evaluator.Evaluate(eurRequest("50000", "250000", "200000", 20))

		s.Require().NoError(err)
		s.False(result.Feasible)
		s.Nil(result.MonthlyPayment)
		s.Equal([]mortgage.ErrorCode{
			mortgage.ErrorCodeHighLoanToValue,
			mortgage.ErrorCodeInsufficientIncome,
		}, result.ErrorCodes)
	})

	s.Run("currency mismatch alone", func() {
		req := eurRequest("50000", "150000", "200000", 20)
		req.HomeValue = mortgage.MustAmount("200000", mortgage.CurrencyUSD)

		result, err := s.evaluator.Evaluate(req)

		s.Require().NoError(err)
		s.False(result.Feasible)
		s.Equal([]mortgage.ErrorCode{mortgage.ErrorCodeCurrencyMismatch}, result.ErrorCodes)
	})

	s.Run("rule failures win over a missing rate table", func() {
		result, err := mortgage.NewEvaluator(mortgage.StaticRates{}).
			Evaluate(eurRequest("50000", "250000", "200000", 20))

		s.Require().NoError(err)
		s.False(result.Feasible)
	})
}

func (s *EvaluatorSuite) TestMissingRates() {
	_, err := mortgage.NewEvaluator(mortgage.StaticRates{}).
		Evaluate(eurRequest("50000", "150000", "200000", 20))

	s.Require().Error(err)
	s.True(mortgage.IsConfigurationError(err))
}

func (s *EvaluatorSuite) TestConcurrentEvaluations() {
	req := eurRequest("50000", "150000", "200000", 20)
	want, err := s.evaluator.Evaluate(req)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.evaluator.Evaluate(req)
			if err != nil || !got.MonthlyPayment.Value.Equal(want.MonthlyPayment.Value) {
				errs <- "concurrent evaluation diverged"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		s.Fail(msg)
	}
}
