// Package middleware holds the Echo middleware of the HTTP server:
// request ids, request-scoped loggers, New Relic tracing, Clerk
// authentication, rate limiting and the global error handler.
package middleware
