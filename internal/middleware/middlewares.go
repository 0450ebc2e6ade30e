package middleware

import (
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups every middleware component so the router receives a
// single dependency.
type Middlewares struct {
	// Global: CORS, request logging, recovery, secure headers, error handler.
	Global *GlobalMiddlewares

	// Auth: Clerk session verification for the mail endpoints.
	Auth *AuthMiddleware

	// ContextEnhancer: request-scoped logger with correlation fields.
	ContextEnhancer *ContextEnhancer

	// Tracing: New Relic transactions and custom attributes.
	Tracing *TracingMiddleware

	// RateLimit: per-IP throttling of the send endpoint.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components.
//
// When New Relic is not configured nrApp is nil and the tracing middleware
// degrades into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
