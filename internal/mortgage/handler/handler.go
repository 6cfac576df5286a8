package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mortgagecheck/internal/mortgage"
	"mortgagecheck/pkg/platform/httputil"
	"mortgagecheck/pkg/requestcontext"
)

// Service defines the interface for mortgage operations.
type Service interface {
	Check(ctx context.Context, req mortgage.Request) (*mortgage.CheckResult, error)
	InterestRates(ctx context.Context) (*mortgage.RatesResult, error)
}

// Handler wires mortgage endpoints to the mortgage service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a mortgage handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts mortgage endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/mortgage-check", h.HandleCheck)
	r.Get("/interest-rates", h.HandleInterestRates)
}

// HandleCheck handles POST /mortgage-check requests.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := requestcontext.TraceID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, traceID)
	if !ok {
		return
	}

	result, err := h.service.Check(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "mortgage check failed",
			"trace_id", traceID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.DebugContext(ctx, "mortgage check served",
		"trace_id", traceID,
		"feasible", result.Feasible,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromCheckResult(result, traceID))
}

// HandleInterestRates handles GET /interest-rates requests.
func (h *Handler) HandleInterestRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := requestcontext.TraceID(ctx)

	result, err := h.service.InterestRates(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "listing interest rates failed",
			"trace_id", traceID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRatesResult(result, traceID))
}
