// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the email client (mail provider selected by config)
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the application cleanly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-mailer/internal/config"
	"github.com/deppfellow/go-mailer/internal/lib/email"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/go-mailer/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; it holds the config, the loggers and
// the email client, plus the *http.Server used to serve requests.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application. It is always non-nil
	// after New, but GetApplication() returns nil when New Relic is off.
	LoggerService *loggerPkg.LoggerService

	// Email renders templates and hands them to the configured provider.
	Email *email.Client

	httpServer *http.Server
}

// New constructs a Server and its email client.
//
// It does NOT start the HTTP server. That is done by SetupHTTPServer + Start.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	emailClient, err := email.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email client: %w", err)
	}

	return NewWithEmail(cfg, logger, loggerService, emailClient), nil
}

// NewWithEmail constructs a Server around an existing email client.
func NewWithEmail(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService, emailClient *email.Client) *Server {
	if loggerService == nil {
		loggerService = &loggerPkg.LoggerService{}
	}

	logger.Info().
		Str("provider", emailClient.Provider()).
		Msg("email client initialized")

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Email:         emailClient,
	}
}

// SetupHTTPServer configures the internal net/http server.
//
// Timeouts come from config as whole seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// SetupHTTPServer must be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests (including sends in progress) until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.Logger.Info().Msg("server stopped")

	return nil
}
