package rates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"mortgagecheck/internal/mortgage"
	"mortgagecheck/pkg/platform/sentinel"
	"mortgagecheck/pkg/platform/tx"
)

const (
	selectRates = `SELECT maturity_period, interest_rate, last_update FROM mortgage_rates ORDER BY maturity_period`
	deleteRates = `DELETE FROM mortgage_rates`
	insertRate  = `INSERT INTO mortgage_rates (maturity_period, interest_rate, last_update) VALUES ($1, $2, $3)`
)

// PostgresLoader reads the rate table from the mortgage_rates table.
type PostgresLoader struct {
	db *sql.DB
}

// NewPostgresLoader constructs a PostgreSQL-backed loader.
func NewPostgresLoader(db *sql.DB) *PostgresLoader {
	return &PostgresLoader{db: db}
}

func (l *PostgresLoader) Load(ctx context.Context) ([]mortgage.RateTier, error) {
	rows, err := tx.ExecutorFor(ctx, l.db).QueryContext(ctx, selectRates)
	if err != nil {
		return nil, fmt.Errorf("query mortgage rates: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var tiers []mortgage.RateTier
	for rows.Next() {
		var (
			tier mortgage.RateTier
			rate decimal.Decimal
		)
		if err := rows.Scan(&tier.MaturityPeriodMonths, &rate, &tier.LastUpdate); err != nil {
			return nil, fmt.Errorf("scan mortgage rate: %w", err)
		}
		tier.AnnualRatePercent = rate
		tiers = append(tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mortgage rates: %w", err)
	}
	return tiers, nil
}

// Publish replaces the whole table in one transaction so a concurrent Load
// sees either the old or the new table.
func (l *PostgresLoader) Publish(ctx context.Context, tiers []mortgage.RateTier) error {
	return tx.RunInTx(ctx, l.db, func(ctx context.Context) error {
		exec := tx.ExecutorFor(ctx, l.db)
		if _, err := exec.ExecContext(ctx, deleteRates); err != nil {
			return fmt.Errorf("clear mortgage rates: %w", err)
		}
		for _, tier := range tiers {
			if _, err := exec.ExecContext(ctx, insertRate,
				tier.MaturityPeriodMonths, tier.AnnualRatePercent, tier.LastUpdate); err != nil {
				return fmt.Errorf("insert mortgage rate %d: %w", tier.MaturityPeriodMonths, err)
			}
		}
		return nil
	})
}
