package handler

import (
	"strings"

	"github.com/shopspring/decimal"

	"mortgagecheck/internal/mortgage"
	dErrors "mortgagecheck/pkg/domain-errors"
)

// MaxMaturityPeriod caps the loan term at fifty years.
const MaxMaturityPeriod = 600

// MaxAmountDecimals is the finest precision accepted for a money amount.
const MaxAmountDecimals = 2

// maxAmountDigits is the integer digit count of MaxAmount.
const maxAmountDigits = 16

// MaxAmount is the largest money amount accepted on any field (10^15).
var MaxAmount = decimal.New(1, 15)

// CheckRequest is the HTTP request body for POST /mortgage-check.
type CheckRequest struct {
	Income         *MoneyRequest `json:"income"`
	MaturityPeriod *int          `json:"maturity_period"`
	LoanValue      *MoneyRequest `json:"loan_value"`
	HomeValue      *MoneyRequest `json:"home_value"`

	// Parsed values (populated by Validate)
	income    mortgage.Amount
	loanValue mortgage.Amount
	homeValue mortgage.Amount
}

// MoneyRequest is an amount with its ISO currency code.
type MoneyRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	var err error
	if r.income, err = r.Income.parse("income"); err != nil {
		return err
	}
	if r.MaturityPeriod == nil {
		return dErrors.New(dErrors.CodeValidation, "maturity_period is required")
	}
	if *r.MaturityPeriod < 1 || *r.MaturityPeriod > MaxMaturityPeriod {
		return dErrors.New(dErrors.CodeValidation, "maturity_period must be between 1 and 600")
	}
	if r.loanValue, err = r.LoanValue.parse("loan_value"); err != nil {
		return err
	}
	if r.homeValue, err = r.HomeValue.parse("home_value"); err != nil {
		return err
	}
	return nil
}

// ToDomain returns the validated request. Only valid after Validate.
func (r *CheckRequest) ToDomain() mortgage.Request {
	return mortgage.Request{
		Income:               r.income,
		MaturityPeriodMonths: *r.MaturityPeriod,
		LoanValue:            r.loanValue,
		HomeValue:            r.homeValue,
	}
}

func (m *MoneyRequest) parse(field string) (mortgage.Amount, error) {
	if m == nil {
		return mortgage.Amount{}, dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if m.Amount == nil {
		return mortgage.Amount{}, dErrors.New(dErrors.CodeValidation, field+".amount is required")
	}
	if !m.Amount.IsPositive() {
		return mortgage.Amount{}, dErrors.New(dErrors.CodeValidation, field+".amount must be positive")
	}
	// Scale is checked before magnitude so the comparison below never
	// rescales an exponent the client chose.
	if fractionalDigits(*m.Amount) > MaxAmountDecimals {
		return mortgage.Amount{}, dErrors.New(dErrors.CodeValidation, field+".amount must have at most 2 decimal places")
	}
	if integerDigits(*m.Amount) > maxAmountDigits || m.Amount.GreaterThan(MaxAmount) {
		return mortgage.Amount{}, dErrors.New(dErrors.CodeValidation, field+".amount must not exceed "+MaxAmount.String())
	}
	currency, err := mortgage.ParseCurrency(m.Currency)
	if err != nil {
		return mortgage.Amount{}, dErrors.Wrap(err, dErrors.CodeValidation, field+".currency is not supported")
	}
	return mortgage.NewAmount(*m.Amount, currency), nil
}

// fractionalDigits counts significant digits after the decimal point,
// ignoring trailing zeros, without rescaling d.
func fractionalDigits(d decimal.Decimal) int {
	exp := int(d.Exponent())
	if exp >= 0 {
		return 0
	}
	coef := d.Coefficient().String()
	trailing := len(coef) - len(strings.TrimRight(coef, "0"))
	if n := -exp - trailing; n > 0 {
		return n
	}
	return 0
}

func integerDigits(d decimal.Decimal) int {
	return d.NumDigits() + int(d.Exponent())
}
