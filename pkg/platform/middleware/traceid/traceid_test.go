package traceid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgagecheck/pkg/platform/httputil"
	"mortgagecheck/pkg/requestcontext"
)

func TestMiddleware(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.TraceID(r.Context())
	}))

	t.Run("reuses a valid incoming trace id", func(t *testing.T) {
		incoming := uuid.NewString()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(httputil.TraceHeader, incoming)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, r)

		assert.Equal(t, incoming, seen)
		assert.Equal(t, incoming, rec.Header().Get(httputil.TraceHeader))
	})

	t.Run("generates a trace id when missing", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, r)

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(httputil.TraceHeader))
	})

	t.Run("replaces a malformed trace id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(httputil.TraceHeader, "not-a-uuid")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, r)

		assert.NotEqual(t, "not-a-uuid", seen)
		_, err := uuid.Parse(seen)
		require.NoError(t, err)
	})
}
