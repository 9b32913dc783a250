package middleware

import (
	"net/http"

	"github.com/respkit/respkit/pkg/response"
)

// Buffer installs a buffered response over the real writer so handlers and
// inner middleware get the full response capability set: deferred status,
// mutable headers, charset and locale handling, reset support. It belongs at
// the outer edge of the chain. A size of zero or less selects the default
// buffer size.
func Buffer(size int) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := w.(response.Response); ok {
				// Already buffered further out
				next.ServeHTTP(w, r)
				return
			}

			buffered := response.NewBuffered(w, size)
			next.ServeHTTP(buffered, r)

			// The client is gone if this fails; there is nobody left to tell.
			_ = buffered.FlushBuffer()
		})
	}
}

// Charset applies a default character encoding that handlers can still
// override before the response commits.
func Charset(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rsp, ok := w.(response.Response); ok && !rsp.Committed() {
				rsp.SetCharacterEncoding(name)
			}
			next.ServeHTTP(w, r)
		})
	}
}
