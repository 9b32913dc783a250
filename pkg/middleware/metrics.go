package middleware

import (
	"net/http"
	"time"

	"github.com/respkit/respkit/pkg/metrics"
)

// Metrics records request count, duration and response size per route.
func Metrics(rec *metrics.Recorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			status, written := capture(next, w, r)

			rec.ObserveRequest(r.Method, r.URL.Path, status, written, time.Since(start))
		})
	}
}
