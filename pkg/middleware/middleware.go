// Package middleware provides the HTTP middleware chain for respkit servers.
// The observation middleware (access log, metrics, tracing) reads response
// state through the response capability set when a buffered response is
// installed, and falls back to a plain status-capturing writer when it isn't.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h so that the first middleware listed is the
// outermost one at request time.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
