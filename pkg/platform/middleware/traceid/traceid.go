// Package traceid propagates a per-request trace ID. An incoming X-Trace-Id
// header is reused when it is a valid UUID; otherwise a new one is generated.
// The ID is stored in the request context and echoed on the response.
package traceid

import (
	"net/http"

	"github.com/google/uuid"

	"mortgagecheck/pkg/platform/httputil"
	"mortgagecheck/pkg/requestcontext"
)

// Middleware assigns the trace ID before any handler runs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := FromHeader(r.Header.Get(httputil.TraceHeader))
		w.Header().Set(httputil.TraceHeader, traceID)
		ctx := requestcontext.WithTraceID(r.Context(), traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromHeader returns the canonical form of header when it parses as a UUID,
// and a fresh random UUID otherwise.
func FromHeader(header string) string {
	if header != "" {
		if parsed, err := uuid.Parse(header); err == nil {
			return parsed.String()
		}
	}
	return uuid.NewString()
}
