package router

import (
	"github.com/deppfellow/go-mailer/internal/handler"
	"github.com/deppfellow/go-mailer/internal/middleware"
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/labstack/echo/v4"
)

// registerMailRoutes mounts the mail endpoints under /mail.
//
// The preview renders caller-supplied links, so it only exists outside
// production. Sending is rate limited per IP before authentication, then
// the context logger is rebuilt so it carries the authenticated user id.
func registerMailRoutes(g *echo.Group, s *server.Server, h *handler.Handlers, m *middleware.Middlewares) {
	mail := g.Group("/mail")

	if !s.Config.Observability.IsProduction() {
		mail.GET("/preview", h.Mail.Preview())
	}

	mail.POST("/send", h.Mail.Send(),
		m.RateLimit.Limit(),
		m.Auth.RequireAuth,
		m.ContextEnhancer.EnhanceContext(),
	)
}
