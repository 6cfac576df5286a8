package mortgage

import "github.com/shopspring/decimal"

// Rule is one of the eligibility checks applied to every request. The set is
// closed; Rules lists them in evaluation order.
type Rule int

const (
	RuleLoanToValue Rule = iota + 1
	RuleIncomeMultiple
	RuleCurrencyConsistency
)

// Rules is the fixed evaluation order. Reported error codes follow it.
var Rules = []Rule{
	RuleLoanToValue,
	RuleIncomeMultiple,
	RuleCurrencyConsistency,
}

// MaxIncomeMultiple caps the loan at this multiple of the applicant's income.
var MaxIncomeMultiple = decimal.NewFromInt(4)

func (r Rule) String() string {
	switch r {
	case RuleLoanToValue:
		return "loan_to_value"
	case RuleIncomeMultiple:
		return "income_multiple"
	case RuleCurrencyConsistency:
		return "currency_consistency"
	default:
		return "unknown"
	}
}

// Apply evaluates the rule against req.
// This is pure domain logic - no I/O, no side effects.
func (r Rule) Apply(req Request) RuleOutcome {
	switch r {
	case RuleLoanToValue:
		return applyLoanToValue(req)
	case RuleIncomeMultiple:
		return applyIncomeMultiple(req)
	case RuleCurrencyConsistency:
		return applyCurrencyConsistency(req)
	default:
		panic("mortgage: unknown rule")
	}
}

// applyLoanToValue rejects loans larger than the value of the home.
func applyLoanToValue(req Request) RuleOutcome {
	if req.LoanValue.Value.LessThanOrEqual(req.HomeValue.Value) {
		return pass()
	}
	return fail(ErrorCodeHighLoanToValue)
}

// applyIncomeMultiple rejects loans above MaxIncomeMultiple times the income.
func applyIncomeMultiple(req Request) RuleOutcome {
	limit := req.Income.Value.Mul(MaxIncomeMultiple)
	if req.LoanValue.Value.LessThanOrEqual(limit) {
		return pass()
	}
	return fail(ErrorCodeInsufficientIncome)
}

func applyCurrencyConsistency(req Request) RuleOutcome {
	if req.Income.Currency == req.LoanValue.Currency && req.Income.Currency == req.HomeValue.Currency {
		return pass()
	}
	return fail(ErrorCodeCurrencyMismatch)
}

// EvaluateAll applies every rule in Rules order. A failing rule never stops
// the ones after it, so callers can report every violation at once.
func EvaluateAll(req Request) []RuleOutcome {
	outcomes := make([]RuleOutcome, 0, len(Rules))
	for _, rule := range Rules {
		outcomes = append(outcomes, rule.Apply(req))
	}
	return outcomes
}
