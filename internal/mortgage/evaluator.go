package mortgage

// RateSource supplies the current rate table snapshot. Implementations must
// publish new tables by replacing the slice, never by mutating it in place.
type RateSource interface {
	RateTiers() []RateTier
}

// Evaluator composes the eligibility rules, the rate resolver and the
// amortization calculator into a single feasibility decision.
type Evaluator struct {
	rates RateSource
}

// NewEvaluator builds an evaluator reading rates from source.
func NewEvaluator(source RateSource) *Evaluator {
	return &Evaluator{rates: source}
}

// Evaluate decides whether req is feasible and prices it when it is.
//
// Rule failures are a normal, infeasible Result. The error return is reserved
// for configuration problems (see ConfigurationError); a request never causes
// one.
func (e *Evaluator) Evaluate(req Request) (Result, error) {
	outcomes := EvaluateAll(req)

	var codes []ErrorCode
	for _, outcome := range outcomes {
		if !outcome.Passed {
			codes = append(codes, outcome.ErrorCode)
		}
	}
	if len(codes) > 0 {
		return Result{Feasible: false, ErrorCodes: codes}, nil
	}

	rate, err := ResolveRate(e.rates.RateTiers(), req.MaturityPeriodMonths)
	if err != nil {
		return Result{}, err
	}

	payment := NewAmount(
		MonthlyPayment(req.LoanValue.Value, rate, req.MaturityPeriodMonths),
		req.LoanValue.Currency,
	)
	return Result{Feasible: true, MonthlyPayment: &payment}, nil
}

// StaticRates is a fixed RateSource, handy for tools and tests.
type StaticRates []RateTier

func (s StaticRates) RateTiers() []RateTier {
	return s
}
