package mortgage

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorCode identifies which eligibility rule rejected a request.
type ErrorCode string

const (
	ErrorCodeHighLoanToValue    ErrorCode = "HIGH_LOAN_TO_VALUE"
	ErrorCodeInsufficientIncome ErrorCode = "INSUFFICIENT_INCOME"
	ErrorCodeCurrencyMismatch   ErrorCode = "CURRENCY_MISMATCH"
)

// Request is a single mortgage feasibility check. Field-level validation
// (presence, positive amounts, known currencies) happens before a Request is
// built, so the evaluator trusts its input.
type Request struct {
	Income               Amount
	MaturityPeriodMonths int
	LoanValue            Amount
	HomeValue            Amount
}

// RateTier is one row of the rate table: the annual rate that applies to
// loans whose term falls in this tier.
type RateTier struct {
	MaturityPeriodMonths int
	AnnualRatePercent    decimal.Decimal
	LastUpdate           time.Time
}

// RuleOutcome is the verdict of a single eligibility rule. ErrorCode is set
// only when Passed is false.
type RuleOutcome struct {
	Passed    bool
	ErrorCode ErrorCode
}

func pass() RuleOutcome {
	return RuleOutcome{Passed: true}
}

func fail(code ErrorCode) RuleOutcome {
	return RuleOutcome{Passed: false, ErrorCode: code}
}

// Result is the outcome of an evaluation. MonthlyPayment is set only when
// Feasible; ErrorCodes is set only when not, in rule evaluation order.
type Result struct {
	Feasible       bool
	MonthlyPayment *Amount
	ErrorCodes     []ErrorCode
}
