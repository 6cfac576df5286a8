package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"mortgagecheck/internal/platform/metrics"
	dErrors "mortgagecheck/pkg/domain-errors"
	"mortgagecheck/pkg/platform/httputil"
	"mortgagecheck/pkg/requestcontext"
)

// AccessLog logs one line per request and records HTTP metrics. m may be nil.
func AccessLog(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)
			m.ObserveRequest(route, r.Method, strconv.Itoa(status), elapsed.Seconds())

			ctx := r.Context()
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "http request",
				"method", r.Method,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", elapsed.Milliseconds(),
				"client_ip", requestcontext.ClientIP(ctx),
				"trace_id", requestcontext.TraceID(ctx),
			)
		})
	}
}

// Recover converts a handler panic into a 500 response. A panic after the
// handler has started its response is only logged; the partial response stands.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				logger.ErrorContext(ctx, "panic serving request",
					"panic", fmt.Sprint(rec),
					"path", r.URL.Path,
					"trace_id", requestcontext.TraceID(ctx),
					"response_started", ww.Status() != 0,
				)
				if ww.Status() != 0 {
					return
				}
				httputil.WriteError(ww, dErrors.New(dErrors.CodeInternal, "internal error"))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// routePattern keeps metric label cardinality bounded to registered routes.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
