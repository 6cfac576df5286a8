package rates

//go:generate mockgen -source=loader.go -destination=mocks/mocks.go -package=mocks Loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"mortgagecheck/internal/mortgage"
	"mortgagecheck/internal/rates/metrics"
	"mortgagecheck/internal/rates/mocks"
	"mortgagecheck/pkg/platform/circuit"
	"mortgagecheck/pkg/platform/sentinel"
)

// =============================================================================
// Refresher Test Suite
// =============================================================================
// The refresher is the only writer of the published table. Tests verify that
// a failed or invalid reload never replaces a table that is already serving.

type RefresherSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	loader    *mocks.MockLoader
	store     *Store
	metrics   *metrics.Metrics
	refresher *Refresher
	now       time.Time
}

func TestRefresherSuite(t *testing.T) {
	suite.Run(t, new(RefresherSuite))
}

func (s *RefresherSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.loader = mocks.NewMockLoader(s.ctrl)
	s.store = NewStore()
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.now = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	var err error
	s.refresher, err = NewRefresher(s.loader, s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return s.now }),
	)
	s.Require().NoError(err)
}

func (s *RefresherSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RefresherSuite) TestNewRefresher() {
	s.Run("nil loader returns error", func() {
		_, err := NewRefresher(nil, s.store)
		s.ErrorContains(err, "rate loader is required")
	})

	s.Run("nil store returns error", func() {
		_, err := NewRefresher(s.loader, nil)
		s.ErrorContains(err, "rate store is required")
	})
}

func (s *RefresherSuite) TestLoadOnce() {
	ctx := context.Background()
	table := []mortgage.RateTier{tier(10, "2.5"), tier(20, "3.5")}

	s.Run("publishes a valid table", func() {
		s.loader.EXPECT().Load(gomock.Any()).Return(table, nil)

		s.Require().NoError(s.refresher.LoadOnce(ctx))
		s.Equal(table, s.store.RateTiers())
		s.Equal(s.now, s.store.LoadedAt())
		s.Equal(2.0, testutil.ToFloat64(s.metrics.Tiers))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Reloads.WithLabelValues("success")))
	})

	s.Run("load failure keeps the previous table", func() {
		s.loader.EXPECT().Load(gomock.Any()).Return(nil, errors.New("connection refused"))

		err := s.refresher.LoadOnce(ctx)
		s.ErrorContains(err, "connection refused")
		s.Equal(table, s.store.RateTiers())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Reloads.WithLabelValues(resultLoadError)))
	})

	s.Run("unreachable source is reported as unavailable", func() {
		s.loader.EXPECT().Load(gomock.Any()).Return(nil,
			fmt.Errorf("read redis key mortgage:rates: %w: %w", sentinel.ErrUnavailable, errors.New("dial tcp: i/o timeout")))

		err := s.refresher.LoadOnce(ctx)
		s.ErrorIs(err, sentinel.ErrUnavailable)
		s.Equal(table, s.store.RateTiers())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Reloads.WithLabelValues(resultUnavailable)))
	})

	s.Run("missing table is reported as not found", func() {
		s.loader.EXPECT().Load(gomock.Any()).Return(nil, fmt.Errorf("redis key mortgage:rates: %w", sentinel.ErrNotFound))

		s.Error(s.refresher.LoadOnce(ctx))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Reloads.WithLabelValues(resultNotFound)))
	})

	s.Run("invalid table keeps the previous table", func() {
		s.loader.EXPECT().Load(gomock.Any()).Return([]mortgage.RateTier{}, nil)

		s.Error(s.refresher.LoadOnce(ctx))
		s.Equal(table, s.store.RateTiers())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Reloads.WithLabelValues(resultInvalid)))
	})
}

func (s *RefresherSuite) TestDegraded() {
	ctx := context.Background()
	refresher, err := NewRefresher(s.loader, s.store,
		WithBreaker(circuit.New("rate-source", circuit.WithFailureThreshold(2))),
	)
	s.Require().NoError(err)

	s.loader.EXPECT().Load(gomock.Any()).Return(nil, errors.New("timeout")).Times(2)
	s.Error(refresher.LoadOnce(ctx))
	s.False(refresher.Degraded())
	s.Error(refresher.LoadOnce(ctx))
	s.True(refresher.Degraded())

	s.loader.EXPECT().Load(gomock.Any()).Return([]mortgage.RateTier{tier(10, "2.5")}, nil)
	s.NoError(refresher.LoadOnce(ctx))
	s.False(refresher.Degraded())
}

func (s *RefresherSuite) TestRun() {
	s.Run("disabled interval blocks until cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s.NoError(s.refresher.Run(ctx))
	})

	s.Run("reloads on every tick", func() {
		refresher, err := NewRefresher(s.loader, s.store, WithInterval(5*time.Millisecond))
		s.Require().NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		loaded := make(chan struct{})
		var once sync.Once
		s.loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(context.Context) ([]mortgage.RateTier, error) {
			once.Do(func() {
				close(loaded)
				cancel()
			})
			return []mortgage.RateTier{tier(30, "4")}, nil
		}).MinTimes(1)

		done := make(chan error, 1)
		go func() { done <- refresher.Run(ctx) }()

		select {
		case <-loaded:
		case <-time.After(2 * time.Second):
			s.FailNow("refresher never reloaded")
		}
		s.NoError(<-done)
	})
}
