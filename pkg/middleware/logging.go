package middleware

import (
	"net/http"
	"time"

	"github.com/respkit/respkit/pkg/logging"
)

// AccessLog logs one line per handled request: method, path, status, body
// bytes and duration, plus the request ID when RequestID runs further out.
func AccessLog(log *logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			status, written := capture(next, w, r)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       written,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
			}
			if id := RequestIDFromContext(r.Context()); id != "" {
				fields["request_id"] = id
			}

			if status >= http.StatusInternalServerError {
				log.Error("request failed", fields)
			} else {
				log.Info("request handled", fields)
			}
		})
	}
}
