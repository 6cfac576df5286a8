package testutil

import (
	"context"
	"net/http"
	"time"

	"mortgagecheck/pkg/requestcontext"
)

// WithTraceID adds a trace ID to the request context.
// This simulates what the traceid middleware does for every request.
func WithTraceID(req *http.Request, traceID string) *http.Request {
	return req.WithContext(requestcontext.WithTraceID(req.Context(), traceID))
}

// WithRequestTime pins the request time so handlers and services see a fixed clock.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
