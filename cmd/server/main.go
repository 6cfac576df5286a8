package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"mortgagecheck/internal/mortgage"
	mortgagehandler "mortgagecheck/internal/mortgage/handler"
	mortgagemetrics "mortgagecheck/internal/mortgage/metrics"
	"mortgagecheck/internal/platform/config"
	"mortgagecheck/internal/platform/httpserver"
	"mortgagecheck/internal/platform/logger"
	"mortgagecheck/internal/platform/metrics"
	"mortgagecheck/internal/platform/postgres"
	"mortgagecheck/internal/platform/redis"
	"mortgagecheck/internal/rates"
	ratesmetrics "mortgagecheck/internal/rates/metrics"
	httptransport "mortgagecheck/internal/transport/http"
	"mortgagecheck/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	loader, closeLoader, err := buildLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLoader()

	store := rates.NewStore()
	refresher, err := rates.NewRefresher(loader, store,
		rates.WithLogger(log),
		rates.WithMetrics(ratesmetrics.New()),
		rates.WithInterval(cfg.Rates.RefreshInterval),
		rates.WithBreaker(circuit.New("rate-source",
			circuit.WithFailureThreshold(cfg.Rates.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.Rates.RecoveryThreshold),
		)),
	)
	if err != nil {
		return err
	}
	if err := refresher.LoadOnce(ctx); err != nil {
		return fmt.Errorf("initial rate table load: %w", err)
	}

	svc := mortgage.NewService(store,
		mortgage.WithLogger(log),
		mortgage.WithMetrics(mortgagemetrics.New()),
	)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		BasePath: cfg.Server.BasePath,
		Logger:   log,
		Metrics:  metrics.New(),
		Health:   store,
		Source:   refresher,
	}, mortgagehandler.New(svc, log))

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting mortgage service",
			"addr", cfg.Server.Addr,
			"base_path", cfg.Server.BasePath,
			"rates_source", cfg.Rates.Source,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return refresher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// buildLoader returns the configured rate loader and a func releasing its
// connections.
func buildLoader(ctx context.Context, cfg config.Config) (rates.Loader, func(), error) {
	switch cfg.Rates.Source {
	case config.RatesSourcePostgres:
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return rates.NewPostgresLoader(db), func() { _ = db.Close() }, nil
	case config.RatesSourceRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return rates.NewRedisLoader(client.Client, cfg.Rates.RedisKey), func() { _ = client.Close() }, nil
	default:
		return rates.NewFileLoader(cfg.Rates.File), func() {}, nil
	}
}
