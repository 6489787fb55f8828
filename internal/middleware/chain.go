// Package middleware provides the HTTP middleware stack wrapped around a
// vantage application by the dev server: request logging, panic recovery,
// CORS, OpenTelemetry tracing, and dev-mode reload script injection.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares. Apply wraps the handler so that the first
// middleware added is the outermost: requests flow first-to-last, responses
// the other way.
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a chain from the given middlewares, outermost first.
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{middlewares: middlewares}
}

// Use appends a middleware to the chain (innermost so far).
func (c *Chain) Use(m Middleware) *Chain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Apply wraps handler with the chain. The chain itself is not modified, so
// one chain can wrap several handlers.
func (c *Chain) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		wrapped = c.middlewares[i](wrapped)
	}
	return wrapped
}

// Len returns the number of middlewares in the chain.
func (c *Chain) Len() int {
	return len(c.middlewares)
}
