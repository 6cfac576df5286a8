package mortgage

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

// ConfigurationError signals a deployment problem (for example an empty rate
// table). It is never caused by the request and must not be reported as a
// client error.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "mortgage configuration: " + e.Reason
}

// ErrNoRatesConfigured is returned when rate resolution finds no tiers.
var ErrNoRatesConfigured = &ConfigurationError{Reason: "no mortgage rates available"}

// IsConfigurationError reports whether err (or anything it wraps) is a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// SortedTiers returns a copy of tiers ordered by maturity period ascending.
// The input slice is never modified.
func SortedTiers(tiers []RateTier) []RateTier {
	sorted := slices.Clone(tiers)
	slices.SortStableFunc(sorted, func(a, b RateTier) int {
		return a.MaturityPeriodMonths - b.MaturityPeriodMonths
	})
	return sorted
}

// ResolveTier picks the tier that applies to a loan of termMonths.
//
// Walking the tiers in ascending order, the current tier applies when the
// term is within its boundary or has not yet reached the next boundary. A
// term past every boundary gets the last tier. With tiers {5, 10, 15}:
// 2 and 7 resolve to 5, 10 resolves to 10, 20 resolves to 15.
func ResolveTier(tiers []RateTier, termMonths int) (RateTier, error) {
	if len(tiers) == 0 {
		return RateTier{}, ErrNoRatesConfigured
	}

	sorted := SortedTiers(tiers)
	for i, current := range sorted {
		if termMonths <= current.MaturityPeriodMonths {
			return current, nil
		}
		if i+1 < len(sorted) && termMonths < sorted[i+1].MaturityPeriodMonths {
			return current, nil
		}
	}
	return sorted[len(sorted)-1], nil
}

// ResolveRate returns the annual rate (percent) for a loan of termMonths.
func ResolveRate(tiers []RateTier, termMonths int) (decimal.Decimal, error) {
	tier, err := ResolveTier(tiers, termMonths)
	if err != nil {
		return decimal.Zero, err
	}
	return tier.AnnualRatePercent, nil
}
