package rates

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"mortgagecheck/internal/rates/metrics"
	"mortgagecheck/pkg/platform/circuit"
	"mortgagecheck/pkg/platform/sentinel"
)

// Reload results as reported in metrics.
const (
	resultLoadError   = "load_error"
	resultNotFound    = "not_found"
	resultUnavailable = "unavailable"
	resultInvalid     = "invalid"
)

// Refresher loads the rate table from a Loader into a Store, once at startup
// and then periodically.
type Refresher struct {
	loader   Loader
	store    *Store
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	breaker  *circuit.Breaker
	now      func() time.Time
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithLogger sets the refresher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Refresher) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Refresher) {
		r.metrics = m
	}
}

// WithInterval sets the reload period. Zero or negative disables periodic reloads.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		r.interval = d
	}
}

// WithClock overrides the clock used to stamp published tables.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) {
		r.now = now
	}
}

// WithBreaker replaces the breaker tracking consecutive source failures.
func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Refresher) {
		if b != nil {
			r.breaker = b
		}
	}
}

// NewRefresher constructs a refresher. loader and store are required.
func NewRefresher(loader Loader, store *Store, opts ...Option) (*Refresher, error) {
	if loader == nil {
		return nil, errors.New("rate loader is required")
	}
	if store == nil {
		return nil, errors.New("rate store is required")
	}
	r := &Refresher{
		loader: loader,
		store:  store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		breaker: circuit.New("rate-source"),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// LoadOnce loads, validates and publishes the table. On any failure the
// previously published table stays in place.
func (r *Refresher) LoadOnce(ctx context.Context) error {
	tiers, err := r.loader.Load(ctx)
	if err != nil {
		r.metrics.RecordFailure(loadFailureResult(err))
		r.recordFailure(ctx)
		r.logger.ErrorContext(ctx, "failed to load rate table",
			"error", err,
			"previous_loaded_at", r.store.LoadedAt(),
		)
		return err
	}
	if err := Validate(tiers); err != nil {
		r.metrics.RecordFailure(resultInvalid)
		r.recordFailure(ctx)
		r.logger.ErrorContext(ctx, "rejected invalid rate table",
			"error", err,
			"previous_loaded_at", r.store.LoadedAt(),
		)
		return err
	}

	now := r.now()
	r.store.Replace(tiers, now)
	r.metrics.RecordSuccess(len(tiers), now)
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "rate source recovered", "breaker", r.breaker.Name())
	}
	r.logger.InfoContext(ctx, "rate table published",
		"tiers", len(tiers),
	)
	return nil
}

func loadFailureResult(err error) string {
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		return resultUnavailable
	case errors.Is(err, sentinel.ErrNotFound):
		return resultNotFound
	default:
		return resultLoadError
	}
}

// Degraded reports whether the source has failed often enough in a row that
// the published table is considered stale.
func (r *Refresher) Degraded() bool {
	return r.breaker.IsOpen()
}

func (r *Refresher) recordFailure(ctx context.Context) {
	if _, change := r.breaker.RecordFailure(); change.Opened {
		r.logger.WarnContext(ctx, "rate source failing, serving previous table",
			"breaker", r.breaker.Name(),
			"previous_loaded_at", r.store.LoadedAt(),
		)
	}
}

// Run reloads the table every interval until ctx is cancelled. Reload
// failures are logged and do not stop the loop.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = r.LoadOnce(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}
