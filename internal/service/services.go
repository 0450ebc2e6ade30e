package service

import (
	"github.com/deppfellow/go-mailer/internal/server"
)

// Services groups every service so handlers receive one dependency.
type Services struct {
	App  *AppService
	Auth *AuthService
	Mail *MailService
}

// NewServices constructs all services from the application container.
func NewServices(s *server.Server) *Services {
	return &Services{
		App:  NewAppService(),
		Auth: NewAuthService(s),
		Mail: NewMailService(s),
	}
}
