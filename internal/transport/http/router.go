package httptransport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mortgagecheck/internal/platform/metrics"
	"mortgagecheck/internal/platform/middleware"
	dErrors "mortgagecheck/pkg/domain-errors"
	"mortgagecheck/pkg/platform/httputil"
	"mortgagecheck/pkg/platform/middleware/metadata"
	"mortgagecheck/pkg/platform/middleware/requesttime"
	"mortgagecheck/pkg/platform/middleware/traceid"
)

// Registrar mounts a module's endpoints on a router.
type Registrar interface {
	Register(r chi.Router)
}

// ReadinessChecker reports whether the service can answer requests.
type ReadinessChecker interface {
	Ready() bool
	LoadedAt() time.Time
}

// DegradationChecker reports whether the service is answering from stale data.
type DegradationChecker interface {
	Degraded() bool
}

// RouterConfig carries the shared dependencies of the HTTP surface.
type RouterConfig struct {
	BasePath string
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Health   ReadinessChecker
	// Source is optional; when degraded, /health still answers 200.
	Source DegradationChecker
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string     `json:"status"`
	RatesLoadedAt *time.Time `json:"rates_loaded_at,omitempty"`
}

// NewRouter wires the middleware chain, the operational endpoints and every
// module registrar under the API base path.
func NewRouter(cfg RouterConfig, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(traceid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.AccessLog(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recover(cfg.Logger))

	// Set before mounting so the API subrouter inherits it.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})

	r.Get("/health", healthHandler(cfg.Health, cfg.Source))

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mount := func(api chi.Router) {
		for _, m := range modules {
			m.Register(api)
		}
	}
	if base := strings.TrimRight(cfg.BasePath, "/"); base != "" {
		r.Route(base, mount)
	} else {
		mount(r)
	}

	return r
}

func healthHandler(health ReadinessChecker, source DegradationChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if health == nil || !health.Ready() {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		status := "ok"
		if source != nil && source.Degraded() {
			status = "degraded"
		}
		loadedAt := health.LoadedAt()
		httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: status, RatesLoadedAt: &loadedAt})
	}
}
