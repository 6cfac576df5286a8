package mortgage

import "github.com/shopspring/decimal"

const (
	// monthlyRateScale is the number of fractional digits kept for the
	// monthly interest rate derived from the annual percentage.
	monthlyRateScale = 10
	// workingScale bounds intermediate results of the annuity factor.
	workingScale = 20
	// paymentScale is the minor unit every payment is rounded to.
	paymentScale = 2
)

var monthsTimesPercent = decimal.NewFromInt(1200)

// MonthlyRate converts an annual percentage into a monthly fraction,
// rounded half-up to monthlyRateScale digits.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(monthsTimesPercent, monthlyRateScale)
}

// MonthlyPayment computes the fixed monthly instalment that repays principal
// over termMonths at annualRatePercent:
//
//	i       = annualRatePercent / 1200
//	payment = principal * i * (1+i)^n / ((1+i)^n - 1)
//
// A zero rate degenerates to principal / n. The result is always rounded
// half-up to two decimals. principal and termMonths must be positive.
func MonthlyPayment(principal, annualRatePercent decimal.Decimal, termMonths int) decimal.Decimal {
	months := decimal.NewFromInt(int64(termMonths))
	i := MonthlyRate(annualRatePercent)
	if i.IsZero() {
		return principal.DivRound(months, paymentScale)
	}

	growth := pow(decimal.NewFromInt(1).Add(i), termMonths)
	numerator := principal.Mul(i).Mul(growth)
	denominator := growth.Sub(decimal.NewFromInt(1))

	return numerator.DivRound(denominator, workingScale).Round(paymentScale)
}

// pow raises base to a non-negative integer power by squaring, keeping
// workingScale digits after every multiplication.
func pow(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base).Round(workingScale)
		}
		base = base.Mul(base).Round(workingScale)
		exp >>= 1
	}
	return result
}
