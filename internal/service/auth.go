package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/go-mailer/internal/server"
)

// AuthService configures Clerk, which verifies the session tokens the
// mail endpoints require.
type AuthService struct {
	server *server.Server
}

// NewAuthService sets the global Clerk key from config.
func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}
