// Package router builds the Echo instance: global middleware in a fixed
// order, system routes and the versioned API group.
package router

import (
	"github.com/deppfellow/go-mailer/internal/handler"
	"github.com/deppfellow/go-mailer/internal/middleware"
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware and routes and returns the Echo instance,
// ready to be handed to server.SetupHTTPServer.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id must exist before the context logger is
	// built, and the transaction before its attributes are added.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	router.GET("/", h.App.GetHello())

	v1 := router.Group("/api/v1")
	registerMailRoutes(v1, s, h, middlewares)

	return router
}
