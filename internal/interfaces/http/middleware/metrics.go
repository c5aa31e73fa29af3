package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/prometheus"
)

// Metrics returns a middleware recording request counts and latency.  The
// path label uses the chi route pattern, not the raw URL, to keep label
// cardinality bounded.
func Metrics(m *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := newWrappedResponseWriter(w)

			next.ServeHTTP(ww, r)

			path := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			m.RecordHTTPRequest(r.Method, path, ww.statusCode, time.Since(start))
		})
	}
}
