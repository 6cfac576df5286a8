package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"mortgagecheck/internal/mortgage"
	"mortgagecheck/pkg/platform/sentinel"
)

// RedisLoader reads the rate table stored as a JSON array under a single key.
// Publishers overwrite the key with SET, so a read always sees a whole table.
type RedisLoader struct {
	client *redis.Client
	key    string
}

// NewRedisLoader constructs a Redis-backed loader.
func NewRedisLoader(client *redis.Client, key string) *RedisLoader {
	return &RedisLoader{client: client, key: key}
}

// RedisRecord is the JSON shape of one tier under the rates key.
type RedisRecord struct {
	MaturityPeriod int             `json:"maturity_period"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	LastUpdate     time.Time       `json:"last_update"`
}

func (l *RedisLoader) Load(ctx context.Context) ([]mortgage.RateTier, error) {
	raw, err := l.client.Get(ctx, l.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis key %s: %w", l.key, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read redis key %s: %w: %w", l.key, sentinel.ErrUnavailable, err)
	}

	var records []RedisRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode redis key %s: %w", l.key, err)
	}

	tiers := make([]mortgage.RateTier, 0, len(records))
	for _, rec := range records {
		tiers = append(tiers, mortgage.RateTier{
			MaturityPeriodMonths: rec.MaturityPeriod,
			AnnualRatePercent:    rec.InterestRate,
			LastUpdate:           rec.LastUpdate,
		})
	}
	return tiers, nil
}

// Publish writes tiers under the loader's key. Used by seeding tools and tests.
func (l *RedisLoader) Publish(ctx context.Context, tiers []mortgage.RateTier) error {
	records := make([]RedisRecord, 0, len(tiers))
	for _, tier := range tiers {
		records = append(records, RedisRecord{
			MaturityPeriod: tier.MaturityPeriodMonths,
			InterestRate:   tier.AnnualRatePercent,
			LastUpdate:     tier.LastUpdate,
		})
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}
	return l.client.Set(ctx, l.key, raw, 0).Err()
}
