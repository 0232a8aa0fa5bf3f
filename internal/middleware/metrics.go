package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/templui/lifeplan/internal/metrics"
)

// Metrics records request durations labelled by the matched route pattern.
// It must wrap the ServeMux directly: the mux sets r.Pattern on the request
// it receives.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(rw.statusCode), time.Since(start))
	})
}
