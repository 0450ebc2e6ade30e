// Package handler is the HTTP layer that sits right behind the router.
//
// It parses requests, validates them with the validation package and calls
// the service layer. Nothing here knows how an email is rendered or sent.
package handler

import (
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/deppfellow/go-mailer/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	App     *AppHandler
	Mail    *MailHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s, services.Mail),
		OpenAPI: NewOpenAPIHandler(s),
		App:     NewAppHandler(s, services.App),
		Mail:    NewMailHandler(s, services.Mail),
	}
}
