// Package app declares how the application is assembled and performs that
// assembly.
//
// The Module values are plain metadata: they name which units the root
// module imports and which controller and provider it owns. Bootstrap
// follows the same graph with explicit constructors.
package app

import (
	"context"

	"github.com/deppfellow/go-mailer/internal/config"
	"github.com/deppfellow/go-mailer/internal/handler"
	"github.com/deppfellow/go-mailer/internal/router"
	"github.com/deppfellow/go-mailer/internal/server"
	"github.com/deppfellow/go-mailer/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/go-mailer/internal/logger"
)

// Module describes one unit of the application graph.
type Module struct {
	Name        string
	Imports     []*Module
	Controllers []string
	Providers   []string
}

// ConfigModule loads and validates environment configuration (package config).
var ConfigModule = &Module{Name: "ConfigModule"}

// MailModule renders templates and talks to the mail provider (package lib/email).
var MailModule = &Module{Name: "MailModule"}

// AppModule is the root module.
var AppModule = &Module{
	Name:        "AppModule",
	Imports:     []*Module{ConfigModule, MailModule},
	Controllers: []string{"AppHandler"},
	Providers:   []string{"AppService"},
}

// App is the assembled application.
type App struct {
	Server   *server.Server
	Services *service.Services
	Handlers *handler.Handlers
	Router   *echo.Echo
}

// Bootstrap builds the application from an already loaded config, in
// import order: mail client, services, handlers, router, HTTP server.
func Bootstrap(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	srv, err := server.New(cfg, logger, loggerService)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize server")
	}

	services := service.NewServices(srv)
	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	return &App{
		Server:   srv,
		Services: services,
		Handlers: handlers,
		Router:   r,
	}, nil
}

// Start blocks serving HTTP until the server is shut down.
func (a *App) Start() error {
	return a.Server.Start()
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// expires.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Server.Shutdown(ctx)
}
