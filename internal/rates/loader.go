package rates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"mortgagecheck/internal/mortgage"
	"mortgagecheck/pkg/platform/sentinel"
)

// Loader reads the full rate table from its source.
type Loader interface {
	Load(ctx context.Context) ([]mortgage.RateTier, error)
}

// FileLoader reads the rate table from a YAML file:
//
//	rates:
//	  - maturity_period: 240
//	    interest_rate: 4.2
//	    last_update: 2026-01-05T09:00:00Z
type FileLoader struct {
	path string
}

// NewFileLoader constructs a YAML file loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

type fileDocument struct {
	Rates []fileRecord `yaml:"rates"`
}

type fileRecord struct {
	MaturityPeriod int       `yaml:"maturity_period"`
	InterestRate   string    `yaml:"interest_rate"`
	LastUpdate     time.Time `yaml:"last_update"`
}

func (l *FileLoader) Load(_ context.Context) ([]mortgage.RateTier, error) {
	raw, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("rate file %s: %w", l.path, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read rate file: %w", err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rate file %s: %w", l.path, err)
	}

	tiers := make([]mortgage.RateTier, 0, len(doc.Rates))
	for _, rec := range doc.Rates {
		rate, err := decimal.NewFromString(rec.InterestRate)
		if err != nil {
			return nil, fmt.Errorf("rate file %s: interest_rate %q for maturity period %d: %w",
				l.path, rec.InterestRate, rec.MaturityPeriod, err)
		}
		tiers = append(tiers, mortgage.RateTier{
			MaturityPeriodMonths: rec.MaturityPeriod,
			AnnualRatePercent:    rate,
			LastUpdate:           rec.LastUpdate,
		})
	}
	return tiers, nil
}
