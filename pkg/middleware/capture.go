package middleware

import (
	"net/http"

	"github.com/respkit/respkit/pkg/response"
)

// statusWriter captures status and body size when no buffered response is in
// front of the handler.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(p []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(p)
	sw.written += int64(n)
	return n, err
}

// capture runs next and reports the response status and body bytes, reading
// them from the buffered response in the chain when one is installed.
func capture(next http.Handler, w http.ResponseWriter, r *http.Request) (int, int64) {
	if rsp, ok := w.(response.Response); ok {
		var buffered *response.Buffered
		if response.As(rsp, &buffered) {
			next.ServeHTTP(w, r)
			return buffered.Status(), buffered.Written()
		}
	}

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(sw, r)
	return sw.status, sw.written
}
