package rates

import (
	"fmt"

	"mortgagecheck/internal/mortgage"
	"mortgagecheck/pkg/platform/sentinel"
)

// Validate rejects tables that must never be published: empty tables,
// non-positive maturity periods, negative rates and duplicate boundaries.
func Validate(tiers []mortgage.RateTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("rate table is empty: %w", sentinel.ErrInvalidState)
	}

	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if tier.MaturityPeriodMonths <= 0 {
			return fmt.Errorf("maturity period %d must be positive: %w", tier.MaturityPeriodMonths, sentinel.ErrInvalidState)
		}
		if tier.AnnualRatePercent.IsNegative() {
			return fmt.Errorf("rate %s for maturity period %d is negative: %w",
				tier.AnnualRatePercent, tier.MaturityPeriodMonths, sentinel.ErrInvalidState)
		}
		if _, dup := seen[tier.MaturityPeriodMonths]; dup {
			return fmt.Errorf("maturity period %d is listed twice: %w", tier.MaturityPeriodMonths, sentinel.ErrInvalidState)
		}
		seen[tier.MaturityPeriodMonths] = struct{}{}
	}
	return nil
}
